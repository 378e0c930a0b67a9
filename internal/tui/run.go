package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/visawatch/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the browser and blocks until the user quits or ctx is done.
// If the very first pass fails and the user quits without a successful
// reload, that error is returned.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Loader == nil {
		return fmt.Errorf("%w: table loader is required", common.ErrInvalidConfig)
	}

	validate := cfg.Options
	validate.Today = cfg.Clock()
	if err := validate.Validate(); err != nil {
		return err
	}

	p := tea.NewProgram(newModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := final.(Model); ok && m.report == nil && m.lastError != nil {
		return m.lastError
	}
	return nil
}
