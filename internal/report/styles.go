package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of the text report.
type Theme struct {
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Preview lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#06B6D4"), // Cyan
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
		Preview: lipgloss.Color("#F9E2AF"), // Yellow
	}
}

// Styles contains the lipgloss styles used by the text report.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Warning lipgloss.Style
	Preview lipgloss.Style
}

// NewStyles creates styles bound to w's terminal capabilities. Output to a
// non-terminal carries no escape codes.
func NewStyles(w io.Writer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	r := lipgloss.NewRenderer(w)

	return &Styles{
		Title:   r.NewStyle().Bold(true).Foreground(theme.Accent),
		Label:   r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(theme.Muted),
		Pass:    r.NewStyle().Foreground(theme.Success),
		Fail:    r.NewStyle().Foreground(theme.Error),
		Warning: r.NewStyle().Bold(true).Foreground(theme.Warning),
		Preview: r.NewStyle().Foreground(theme.Preview),
	}
}

// PlainStyles renders everything without colour or attributes.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Title:   plain,
		Label:   plain,
		Muted:   plain,
		Pass:    plain,
		Fail:    plain,
		Warning: plain,
		Preview: plain,
	}
}
