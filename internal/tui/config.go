package tui

import (
	"log/slog"
	"time"

	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/service"
	"github.com/Veraticus/visawatch/internal/tui/themes"
)

// DefaultLoadTimeout bounds one load of the table.
const DefaultLoadTimeout = 60 * time.Second

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Loader      service.TableLoader
	Dispatcher  service.Dispatcher
	Clock       func() time.Time
	Logger      *slog.Logger
	Options     expiry.Options
	LoadTimeout time.Duration
	Width       int
	Height      int
	ShowStats   bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Clock:       time.Now,
		Logger:      slog.Default(),
		LoadTimeout: DefaultLoadTimeout,
		Width:       80,
		Height:      24,
		ShowStats:   true,
	}
}

// WithLoader sets where records are read from on every refresh.
func WithLoader(loader service.TableLoader) Option {
	return func(c *Config) {
		c.Loader = loader
	}
}

// WithOptions sets the classification options. Options.Today is ignored;
// each pass captures its own reference day from the clock.
func WithOptions(opts expiry.Options) Option {
	return func(c *Config) {
		c.Options = opts
	}
}

// WithDispatcher sets the notification dispatcher.
func WithDispatcher(d service.Dispatcher) Option {
	return func(c *Config) {
		c.Dispatcher = d
	}
}

// WithClock replaces time.Now, e.g. to pin the reference day.
func WithClock(clock func() time.Time) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithLogger sets the logger handed to the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithStats toggles the summary panel.
func WithStats(show bool) Option {
	return func(c *Config) {
		c.ShowStats = show
	}
}
