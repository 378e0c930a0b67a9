// Package themes holds the colour schemes of the interactive browser.
package themes

import (
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Info          lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Row returns the style of a record row: red when expired, amber when
// expiring soon, plain otherwise.
func (t Theme) Row(c model.Classification) lipgloss.Style {
	switch c {
	case model.ClassificationExpired:
		return lipgloss.NewStyle().Foreground(t.Error)
	case model.ClassificationExpiringSoon:
		return lipgloss.NewStyle().Foreground(t.Warning)
	default:
		return t.Normal
	}
}

func newTheme(primary, secondary, success, warning, errColor, info, fg, muted, border, selectedFg string) Theme {
	return Theme{
		Primary: lipgloss.Color(primary),
		Success: lipgloss.Color(success),
		Warning: lipgloss.Color(warning),
		Error:   lipgloss.Color(errColor),
		Info:    lipgloss.Color(info),
		Border:  lipgloss.Color(border),
		Muted:   lipgloss.Color(muted),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(primary)).
			Foreground(lipgloss.Color(selectedFg)).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(1, 2),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondary)).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(errColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(info)).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme("#7c3aed", "#a78bfa", "#10b981", "#f59e0b", "#ef4444", "#3b82f6", "#fafafa", "#737373", "#404040", "#fafafa")

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme("#cba6f7", "#f5c2e7", "#a6e3a1", "#fab387", "#f38ba8", "#89dceb", "#cdd6f4", "#6c7086", "#45475a", "#1e1e2e")

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
