// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette of the browser. Each colour adapts to light and dark
// terminal backgrounds.
type Theme struct {
	Accent lipgloss.AdaptiveColor
	Text   lipgloss.AdaptiveColor
	Dim    lipgloss.AdaptiveColor
	OK     lipgloss.AdaptiveColor
	Bad    lipgloss.AdaptiveColor
	Frame  lipgloss.AdaptiveColor
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent: lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#D97706"},
		Text:   lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"},
		Dim:    lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"},
		OK:     lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#A6E3A1"},
		Bad:    lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F38BA8"},
		Frame:  lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#45475A"},
	}
}

// Styles are the rendered styles shared by every view.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style // view headers
	Normal   lipgloss.Style // notes text and list rows
	Muted    lipgloss.Style // placeholders and counters
	Selected lipgloss.Style // highlighted list row
	Error    lipgloss.Style
	Success  lipgloss.Style
	Editor   lipgloss.Style // frame around the textarea
	Help     lipgloss.Style // key hints
}

// NewStyles derives the styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	text := lipgloss.NewStyle().Foreground(theme.Text)
	dim := lipgloss.NewStyle().Foreground(theme.Dim)

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Normal:   text,
		Muted:    dim,
		Selected: text.Bold(true).Reverse(true),
		Error:    lipgloss.NewStyle().Foreground(theme.Bad),
		Success:  lipgloss.NewStyle().Foreground(theme.OK),
		Editor: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),
		Help: dim.Italic(true),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
