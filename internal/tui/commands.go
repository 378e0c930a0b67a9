package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// loadReport reads the table and runs a full classification pass with a
// freshly captured reference day.
func (m Model) loadReport() tea.Cmd {
	cfg := m.config
	parent := m.ctx
	return func() tea.Msg {
		if cfg.Loader == nil {
			return reportLoadedMsg{err: fmt.Errorf("%w: no table loader", common.ErrMissingConfig)}
		}

		ctx, cancel := context.WithTimeout(parent, cfg.LoadTimeout)
		defer cancel()

		table, err := cfg.Loader.Load(ctx)
		if err != nil {
			return reportLoadedMsg{err: err}
		}

		opts := cfg.Options
		opts.Today = cfg.Clock()
		engine, err := expiry.New(opts, cfg.Logger)
		if err != nil {
			return reportLoadedMsg{err: err}
		}

		report, err := engine.Run(table)
		return reportLoadedMsg{report: report, err: err}
	}
}

// dispatch performs exactly one notification attempt.
func (m Model) dispatch(recipient string, tctx model.TemplateContext) tea.Cmd {
	d := m.config.Dispatcher
	ctx := m.ctx
	return func() tea.Msg {
		return dispatchDoneMsg{result: d.Dispatch(ctx, recipient, tctx)}
	}
}
