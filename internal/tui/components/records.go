// Package components contains the building blocks of the interactive browser.
package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/visawatch/internal/cli"
	"github.com/Veraticus/visawatch/internal/dates"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/Veraticus/visawatch/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RecordListModel is a scrolling list of classified records for one field.
type RecordListModel struct {
	theme   themes.Theme
	field   string
	layout  string
	records []model.ClassifiedRecord
	width   int
	height  int
	cursor  int
	offset  int
}

// NewRecordList creates a list showing field for records.
func NewRecordList(records []model.ClassifiedRecord, field, layout string, theme themes.Theme) RecordListModel {
	return RecordListModel{
		theme:   theme,
		field:   field,
		layout:  layout,
		records: records,
		width:   80,
		height:  20,
	}
}

// Update handles resize messages; navigation is driven by the parent.
func (m RecordListModel) Update(msg tea.Msg) (RecordListModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Resize(msg.Width, msg.Height)
	}
	return m, nil
}

// SetRecords swaps the visible records, keeping the cursor in range.
func (m *RecordListModel) SetRecords(records []model.ClassifiedRecord, field string) {
	m.records = records
	m.field = field
	m.cursor = max(min(m.cursor, len(records)-1), 0)
	m.ensureVisible()
}

// Resize sets the list dimensions. height counts the header line.
func (m *RecordListModel) Resize(width, height int) {
	m.width = width
	m.height = max(height, 2)
	m.ensureVisible()
}

// Len returns the number of records in the list.
func (m RecordListModel) Len() int { return len(m.records) }

// Cursor returns the index of the highlighted record.
func (m RecordListModel) Cursor() int { return m.cursor }

// Selected returns the highlighted record.
func (m RecordListModel) Selected() (model.ClassifiedRecord, bool) {
	if len(m.records) == 0 {
		return model.ClassifiedRecord{}, false
	}
	return m.records[m.cursor], true
}

// MoveUp moves the cursor one row up.
func (m *RecordListModel) MoveUp() { m.moveTo(m.cursor - 1) }

// MoveDown moves the cursor one row down.
func (m *RecordListModel) MoveDown() { m.moveTo(m.cursor + 1) }

// PageUp moves the cursor one screen up.
func (m *RecordListModel) PageUp() { m.moveTo(m.cursor - m.rows()) }

// PageDown moves the cursor one screen down.
func (m *RecordListModel) PageDown() { m.moveTo(m.cursor + m.rows()) }

// Home moves to the first record.
func (m *RecordListModel) Home() { m.moveTo(0) }

// End moves to the last record.
func (m *RecordListModel) End() { m.moveTo(len(m.records) - 1) }

func (m *RecordListModel) moveTo(i int) {
	m.cursor = max(min(i, len(m.records)-1), 0)
	m.ensureVisible()
}

func (m RecordListModel) rows() int {
	return max(m.height-1, 1)
}

func (m *RecordListModel) ensureVisible() {
	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(min(m.offset, len(m.records)-rows), 0)
}

// View renders the header and the visible window of records.
func (m RecordListModel) View() string {
	if len(m.records) == 0 {
		return m.theme.StatusPending.Render("No records in this view.")
	}

	nameW, contactW := m.columnWidths()
	lines := []string{m.theme.Subtitle.Render(m.formatLine("#", "Name", "Contact", "Expiry", "When", nameW, contactW))}

	end := min(m.offset+m.rows(), len(m.records))
	for i := m.offset; i < end; i++ {
		r := m.records[i]
		res := r.Result(m.field)
		shown := dates.Format(res.Date, m.layout)
		if res.Missing() {
			shown = orDash(res.Raw)
		}
		line := m.formatLine(fmt.Sprintf("%d", r.Record.Index+1), orDash(r.Name), orDash(r.Contact),
			shown, cli.FormatDelta(res.DayDelta), nameW, contactW)

		if i == m.cursor {
			lines = append(lines, m.theme.Selected.Render(line))
		} else {
			lines = append(lines, m.theme.Row(res.Classification).Render(line))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// columnWidths splits the space left after the fixed columns between name
// and contact.
func (m RecordListModel) columnWidths() (int, int) {
	const fixed = 4 + 10 + 12 + 8 // index, expiry, when, gaps
	free := max(m.width-fixed, 20)
	nameW := free * 2 / 5
	return nameW, free - nameW
}

func (m RecordListModel) formatLine(idx, name, contact, expiry, when string, nameW, contactW int) string {
	return fmt.Sprintf("%4s  %-*s  %-*s  %-10s  %-12s",
		truncate(idx, 4),
		nameW, truncate(name, nameW),
		contactW, truncate(contact, contactW),
		truncate(expiry, 10),
		truncate(when, 12))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
