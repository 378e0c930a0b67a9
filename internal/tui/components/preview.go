package components

import (
	"fmt"

	"github.com/Veraticus/visawatch/internal/model"
	"github.com/Veraticus/visawatch/internal/tui/themes"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PreviewState is the stage of a single notification.
type PreviewState int

// Preview states.
const (
	PreviewConfirm PreviewState = iota
	PreviewSending
	PreviewDone
)

// PreviewModel shows a rendered notification, then the progress and outcome
// of sending it.
type PreviewModel struct {
	err     error
	theme   themes.Theme
	spinner spinner.Model
	message model.Message
	result  model.NotificationResult
	state   PreviewState
}

// NewPreview creates a preview. A non-nil err means the message cannot be
// sent (for example an invalid recipient) and only the reason is shown.
func NewPreview(msg model.Message, err error, theme themes.Theme) PreviewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	return PreviewModel{
		theme:   theme,
		spinner: s,
		message: msg,
		err:     err,
		state:   PreviewConfirm,
	}
}

// State returns the current stage.
func (m PreviewModel) State() PreviewState { return m.state }

// CanSend reports whether confirming would start a dispatch.
func (m PreviewModel) CanSend() bool {
	return m.err == nil && m.state == PreviewConfirm
}

// Message returns the rendered notification.
func (m PreviewModel) Message() model.Message { return m.message }

// StartSending moves to the sending stage and starts the spinner.
func (m *PreviewModel) StartSending() tea.Cmd {
	m.state = PreviewSending
	return m.spinner.Tick
}

// Finish records the outcome of the dispatch.
func (m *PreviewModel) Finish(result model.NotificationResult) {
	m.result = result
	m.state = PreviewDone
}

// Result returns the outcome once the preview is done.
func (m PreviewModel) Result() model.NotificationResult { return m.result }

// Update advances the spinner while sending.
func (m PreviewModel) Update(msg tea.Msg) (PreviewModel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && m.state == PreviewSending {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the message and the footer for the current stage.
func (m PreviewModel) View() string {
	if m.err != nil {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.theme.StatusError.Render("Cannot send this notification"),
			"",
			m.theme.Normal.Render(m.err.Error()),
			"",
			m.theme.Subtitle.Render("n/esc: back"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render("To:      ")+m.theme.Normal.Render(m.message.To),
		m.theme.Subtitle.Render("Subject: ")+m.theme.Bold.Render(m.message.Subject),
		"",
		m.theme.Normal.Render(m.message.Body),
		"",
	)

	var footer string
	switch m.state {
	case PreviewConfirm:
		footer = m.theme.StatusInfo.Render("Send this notification? y: send  n: cancel")
	case PreviewSending:
		footer = m.spinner.View() + " " + m.theme.StatusPending.Render("Sending...")
	case PreviewDone:
		if m.result.Delivered {
			footer = m.theme.StatusSuccess.Render(fmt.Sprintf("✓ Sent to %s", m.result.Recipient))
		} else {
			footer = m.theme.StatusError.Render("✗ Not sent: " + m.result.Detail)
		}
		footer += "\n" + m.theme.Subtitle.Render("n/esc: back")
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}
