package components

import (
	"fmt"

	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatsPanelModel displays the summary counts of the current field.
type StatsPanelModel struct {
	theme      themes.Theme
	soonBar    progress.Model
	expiredBar progress.Model
	report     expiry.FieldReport
	width      int
	compact    bool
}

// NewStatsPanelModel creates a new stats panel.
func NewStatsPanelModel(theme themes.Theme) StatsPanelModel {
	soon := progress.New(progress.WithSolidFill(string(theme.Warning)), progress.WithoutPercentage())
	expired := progress.New(progress.WithSolidFill(string(theme.Error)), progress.WithoutPercentage())

	return StatsPanelModel{
		theme:      theme,
		soonBar:    soon,
		expiredBar: expired,
		width:      30,
	}
}

// Update handles messages.
func (m StatsPanelModel) Update(msg tea.Msg) (StatsPanelModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Resize(msg.Width)
	}
	return m, nil
}

// SetField shows the counts of one tracked field.
func (m *StatsPanelModel) SetField(report expiry.FieldReport) {
	m.report = report
}

// SetCompact switches between the one-line and the full panel.
func (m *StatsPanelModel) SetCompact(compact bool) {
	m.compact = compact
}

// Resize sets the panel width.
func (m *StatsPanelModel) Resize(width int) {
	m.width = width
	barWidth := max(min(width-4, 40), 10)
	m.soonBar.Width = barWidth
	m.expiredBar.Width = barWidth
}

// View renders the stats panel.
func (m StatsPanelModel) View() string {
	if m.compact {
		return m.renderCompact()
	}
	return m.renderFull()
}

func (m StatsPanelModel) renderCompact() string {
	c := m.report.Partition.Summary
	return fmt.Sprintf("%s  %s  %s",
		m.theme.Bold.Render(fmt.Sprintf("%d records", c.Total)),
		m.theme.StatusWarning.Render(fmt.Sprintf("%d expiring", c.ExpiringSoon)),
		m.theme.StatusError.Render(fmt.Sprintf("%d expired", c.Expired)))
}

func (m StatsPanelModel) renderFull() string {
	c := m.report.Partition.Summary

	sections := []string{
		m.theme.Title.Render(m.report.Field.Name),
		m.theme.Subtitle.Render(fmt.Sprintf("column %q, horizon %d days", m.report.Field.Column, m.report.Horizon)),
		"",
		m.theme.Normal.Render(fmt.Sprintf("Total:          %d", c.Total)),
		"",
		m.theme.StatusWarning.Render(fmt.Sprintf("Expiring soon:  %d", c.ExpiringSoon)),
		m.soonBar.ViewAs(share(c.ExpiringSoon, c.Total)),
		"",
		m.theme.StatusError.Render(fmt.Sprintf("Expired:        %d", c.Expired)),
		m.expiredBar.ViewAs(share(c.Expired, c.Total)),
	}

	if m.report.Unparsed > 0 {
		sections = append(sections, "",
			m.theme.StatusPending.Render(fmt.Sprintf("%d unreadable date(s) treated as missing", m.report.Unparsed)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
