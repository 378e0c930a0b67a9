package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// wideLayout is the width from which the stats panel sits beside the list.
const wideLayout = 110

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case StateLoading:
		return m.renderLoading()
	case StatePreview:
		return m.renderPreview()
	case StateHelp:
		return m.renderHelp()
	}

	if m.report == nil {
		return m.renderFatal()
	}

	sections := []string{m.renderHeader(), m.renderTabs(), ""}
	if m.config.ShowStats && m.width >= wideLayout {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			m.list.View(),
			m.theme.Subtitle.Render(" │ "),
			m.stats.View()))
	} else {
		if m.config.ShowStats {
			sections = append(sections, m.stats.View())
		}
		sections = append(sections, m.list.View())
	}
	sections = append(sections, m.renderStatus(), m.help.ShortHelpView(m.keymap.ShortHelp()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.Title.Render("visawatch"),
		"",
		m.spinner.View()+" "+m.theme.Subtitle.Render("Loading and classifying records..."),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderFatal() string {
	msg := "No records loaded."
	if m.lastError != nil {
		msg = m.lastError.Error()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.StatusError.Render("Could not classify the table"),
		"",
		m.theme.Normal.Render(msg),
		"",
		m.theme.Subtitle.Render("r: retry  q: quit"),
	)
}

func (m Model) renderHeader() string {
	fr := m.currentField()
	title := m.theme.Title.Render(fmt.Sprintf("visawatch · %s", fr.Field.Name))
	meta := m.theme.Subtitle.Render(fmt.Sprintf("  today %s  ·  horizon %d days  ·  %s",
		m.report.Today.Format("02 Jan 2006"), fr.Horizon, m.report.Source))

	header := title + meta
	if n := len(m.report.Fields); n > 1 {
		header += m.theme.Subtitle.Render(fmt.Sprintf("  ·  field %d/%d (f)", m.field+1, n))
	}
	return header
}

func (m Model) renderTabs() string {
	fr := m.currentField()
	counts := map[View]int{
		ViewAll:      len(m.report.Records),
		ViewExpiring: fr.Partition.Summary.ExpiringSoon,
		ViewExpired:  fr.Partition.Summary.Expired,
	}

	tabs := make([]string, 0, 3)
	for _, v := range []View{ViewAll, ViewExpiring, ViewExpired} {
		label := fmt.Sprintf("%s (%d)", v, counts[v])
		if v == m.view {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderStatus() string {
	switch {
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	case m.status != "":
		return m.theme.StatusInfo.Render(m.status)
	default:
		return ""
	}
}

func (m Model) renderPreview() string {
	rec, field := m.previewTarget()
	title := m.theme.Title.Render(fmt.Sprintf("Notify %s about %s", orDash(rec.Name), strings.ToLower(field)))
	box := m.theme.RoundedBox.Width(min(m.width-4, 90)).Render(m.preview.View())
	return lipgloss.JoinVertical(lipgloss.Left, title, "", box)
}

func (m Model) renderHelp() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Keys"),
		"",
		m.help.FullHelpView(m.keymap.FullHelp()),
		"",
		m.theme.Subtitle.Render("Rows are red when expired and amber when expiring within the horizon."),
		m.theme.Subtitle.Render("Each confirmed send is one delivery attempt; nothing is remembered between sessions."),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
