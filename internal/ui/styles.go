package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the UI
type Theme struct {
	Primary   lipgloss.Color // main accent color (commands, highlights)
	Secondary lipgloss.Color // secondary accent (headers, step counters)

	Success lipgloss.Color
	Error   lipgloss.Color
	Warning lipgloss.Color
	Muted   lipgloss.Color // dimmed/secondary text
	Text    lipgloss.Color

	Spinner lipgloss.Color
}

// DefaultTheme returns the default color theme (gruvbox)
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#b8bb26"), // gruvbox green
		Secondary: lipgloss.Color("#83a598"), // gruvbox aqua
		Success:   lipgloss.Color("#b8bb26"),
		Error:     lipgloss.Color("#fb4934"), // gruvbox red
		Warning:   lipgloss.Color("#fabd2f"), // gruvbox yellow
		Muted:     lipgloss.Color("#928374"), // gruvbox gray
		Text:      lipgloss.Color("#ebdbb2"), // gruvbox foreground
		Spinner:   lipgloss.Color("#d3869b"), // gruvbox purple
	}
}

// Status indicators
const (
	SuccessIcon = "✓"
	FailIcon    = "✗"
	InfoIcon    = "•"
)

// Styles returns styled text helpers bound to a renderer
type Styles struct {
	theme *Theme

	Title       lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Highlighted lipgloss.Style
	Spinner     lipgloss.Style
	StepCounter lipgloss.Style
	DiffHeader  lipgloss.Style
}

// NewStyles creates styles whose color profile matches w.
func NewStyles(w io.Writer) *Styles {
	return NewStylesWithTheme(w, DefaultTheme())
}

// NewStylesWithTheme creates styles with a specific theme
func NewStylesWithTheme(w io.Writer, theme *Theme) *Styles {
	r := lipgloss.NewRenderer(w)

	return &Styles{
		theme: theme,

		Title: r.NewStyle().
			Bold(true).
			Foreground(theme.Text),

		Success: r.NewStyle().
			Foreground(theme.Success),

		Error: r.NewStyle().
			Foreground(theme.Error),

		Warning: r.NewStyle().
			Foreground(theme.Warning),

		Muted: r.NewStyle().
			Foreground(theme.Muted),

		Bold: r.NewStyle().
			Bold(true),

		Highlighted: r.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Spinner: r.NewStyle().
			Foreground(theme.Spinner),

		StepCounter: r.NewStyle().
			Foreground(theme.Secondary),

		DiffHeader: r.NewStyle().
			Foreground(theme.Secondary).
			Bold(true),
	}
}

// DefaultStyles returns styles for stderr
func DefaultStyles() *Styles {
	return NewStyles(os.Stderr)
}

// Theme returns the theme used by these styles
func (s *Styles) Theme() *Theme {
	return s.theme
}

// FormatResult returns a styled success/fail result
func (s *Styles) FormatResult(success bool, msg string) string {
	if success {
		return s.Success.Render(SuccessIcon+" ") + msg
	}
	return s.Error.Render(FailIcon+" ") + msg
}

// Truncate shortens a string to maxLen with ellipsis
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// GlamourStyle returns the dark glamour style recolored with the default
// theme.
func GlamourStyle() ansi.StyleConfig {
	return GlamourStyleFromTheme(DefaultTheme())
}

// GlamourStyleFromTheme creates a glamour StyleConfig from the given theme
func GlamourStyleFromTheme(theme *Theme) ansi.StyleConfig {
	primary := string(theme.Primary)
	secondary := string(theme.Secondary)
	warning := string(theme.Warning)
	text := string(theme.Text)

	style := styles.DarkStyleConfig
	style.Document.Color = &text
	style.Heading.Color = &secondary
	style.Strong.Color = &primary
	style.Emph.Color = &warning
	style.Code.Color = &primary
	style.Link.Color = &secondary
	style.LinkText.Color = &primary
	return style
}
