// Package tui is the interactive expiry browser.
package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/Veraticus/visawatch/internal/tui/components"
	"github.com/Veraticus/visawatch/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	StateLoading State = iota
	StateList
	StatePreview
	StateHelp
)

// View is the record subset shown in the list.
type View int

const (
	ViewAll View = iota
	ViewExpiring
	ViewExpired
)

func (v View) String() string {
	switch v {
	case ViewExpiring:
		return "Expiring soon"
	case ViewExpired:
		return "Expired"
	default:
		return "All"
	}
}

// Model holds the main TUI state.
type Model struct {
	ctx       context.Context
	theme     themes.Theme
	lastError error
	report    *expiry.Report
	status    string
	config    Config
	keymap    KeyMap
	help      help.Model
	spinner   spinner.Model
	list      components.RecordListModel
	stats     components.StatsPanelModel
	preview   components.PreviewModel
	field     int
	width     int
	height    int
	view      View
	state     State
	quitting  bool
}

func newModel(ctx context.Context, cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:     ctx,
		config:  cfg,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		spinner: s,
		state:   StateLoading,
		width:   cfg.Width,
		height:  cfg.Height,
		list:    components.NewRecordList(nil, "", cfg.Options.DateLayout, cfg.Theme),
		stats:   components.NewStatsPanelModel(cfg.Theme),
	}
	m.handleResize()
	return m
}

// Init starts the first classification pass.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadReport(), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case reportLoadedMsg:
		m.handleReport(msg)
		return m, nil

	case dispatchDoneMsg:
		m.preview.Finish(msg.result)
		if msg.result.Delivered {
			m.status = fmt.Sprintf("Notification sent to %s", msg.result.Recipient)
		} else {
			m.status = fmt.Sprintf("Notification to %s failed: %s", msg.result.Recipient, msg.result.Detail)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == StatePreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
		if m.state == StateLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StatePreview:
		return m.handlePreviewKey(msg)
	case StateHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Cancel, m.keymap.Quit) {
			m.state = StateList
		}
		return m, nil
	case StateLoading:
		if key.Matches(msg, m.keymap.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.state = StateHelp
	case key.Matches(msg, m.keymap.Up):
		m.list.MoveUp()
	case key.Matches(msg, m.keymap.Down):
		m.list.MoveDown()
	case key.Matches(msg, m.keymap.PageUp):
		m.list.PageUp()
	case key.Matches(msg, m.keymap.PageDown):
		m.list.PageDown()
	case key.Matches(msg, m.keymap.Home):
		m.list.Home()
	case key.Matches(msg, m.keymap.End):
		m.list.End()
	case key.Matches(msg, m.keymap.NextView):
		m.view = (m.view + 1) % 3
		m.refreshList()
	case key.Matches(msg, m.keymap.NextField):
		if m.report != nil && len(m.report.Fields) > 1 {
			m.field = (m.field + 1) % len(m.report.Fields)
			m.refreshList()
		}
	case key.Matches(msg, m.keymap.Preview):
		m.openPreview()
	case key.Matches(msg, m.keymap.Refresh):
		m.state = StateLoading
		m.status = ""
		return m, tea.Batch(m.loadReport(), m.spinner.Tick)
	}

	return m, nil
}

// handlePreviewKey allows one dispatch per preview. Keys pressed while the
// dispatch is in flight are ignored.
func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		if !m.preview.CanSend() || m.config.Dispatcher == nil {
			return m, nil
		}
		rec, field := m.previewTarget()
		spin := m.preview.StartSending()
		return m, tea.Batch(spin, m.dispatch(rec.Contact, rec.TemplateContext(field)))

	case key.Matches(msg, m.keymap.Cancel):
		if m.preview.State() == components.PreviewSending {
			return m, nil
		}
		m.state = StateList
	}
	return m, nil
}

func (m *Model) openPreview() {
	rec, ok := m.list.Selected()
	if !ok {
		return
	}
	if m.config.Dispatcher == nil {
		m.status = "Notifications are not configured"
		return
	}

	field := m.currentField().Field.Name
	msg, err := m.config.Dispatcher.Preview(rec.Contact, rec.TemplateContext(field))
	m.preview = components.NewPreview(msg, err, m.theme)
	m.state = StatePreview
}

// previewTarget returns the record under the cursor and the active field.
// The list cannot move while a preview is open.
func (m Model) previewTarget() (model.ClassifiedRecord, string) {
	rec, _ := m.list.Selected()
	return rec, m.currentField().Field.Name
}

func (m *Model) handleReport(msg reportLoadedMsg) {
	if msg.err != nil {
		m.lastError = msg.err
		if m.state == StateLoading {
			m.state = StateList
		}
		return
	}

	m.lastError = nil
	m.report = msg.report
	if m.field >= len(m.report.Fields) {
		m.field = 0
	}
	m.list = components.NewRecordList(nil, "", m.report.DateLayout, m.theme)
	m.handleResize()
	m.refreshList()
	if m.state == StateLoading {
		m.state = StateList
	}
}

func (m Model) currentField() expiry.FieldReport {
	if m.report == nil || len(m.report.Fields) == 0 {
		return expiry.FieldReport{}
	}
	return m.report.Fields[m.field]
}

// visibleRecords returns the records of the current view and field.
func (m Model) visibleRecords() []model.ClassifiedRecord {
	if m.report == nil {
		return nil
	}
	fr := m.currentField()
	switch m.view {
	case ViewExpiring:
		return fr.Partition.ExpiringSoon
	case ViewExpired:
		return fr.Partition.Expired
	default:
		return m.report.Records
	}
}

func (m *Model) refreshList() {
	fr := m.currentField()
	m.list.SetRecords(m.visibleRecords(), fr.Field.Name)
	m.stats.SetField(fr)
}

// handleResize adjusts component sizes when the terminal resizes.
func (m *Model) handleResize() {
	m.help.Width = m.width
	listHeight := max(m.height-6, 3) // header, tabs, blank line, status, help

	if m.config.ShowStats && m.width >= wideLayout {
		statsWidth := m.width / 3
		m.stats.SetCompact(false)
		m.stats.Resize(statsWidth)
		m.list.Resize(m.width-statsWidth-3, listHeight)
		return
	}

	m.stats.SetCompact(true)
	m.stats.Resize(m.width)
	if m.config.ShowStats {
		listHeight--
	}
	m.list.Resize(m.width, listHeight)
}
