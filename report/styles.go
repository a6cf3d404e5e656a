package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Colors
var (
	colorTitle   = lipgloss.Color("#EF4444")
	colorHeader  = lipgloss.Color("#F59E0B")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles groups every style the reporter renders with. The zero style is
// used throughout when color is off.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Border  lipgloss.Style
	Cell    lipgloss.Style
	Heading lipgloss.Style
}

// NewStyles builds styles bound to w, so color is only emitted when w is a
// terminal that supports it.
func NewStyles(w io.Writer, colored bool) Styles {
	r := lipgloss.NewRenderer(w)
	plain := r.NewStyle()
	if !colored {
		return Styles{
			Title:   plain,
			Header:  plain,
			Prompt:  plain,
			Success: plain,
			Error:   plain,
			Muted:   plain,
			Border:  plain,
			Cell:    plain.Padding(0, 1),
			Heading: plain.Padding(0, 1),
		}
	}
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(colorTitle),
		Header: r.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(colorHeader),
		Prompt: r.NewStyle().
			Bold(true).
			Foreground(colorHeader),
		Success: r.NewStyle().
			Foreground(colorSuccess),
		Error: r.NewStyle().
			Bold(true).
			Foreground(colorError),
		Muted: r.NewStyle().
			Foreground(colorMuted),
		Border: r.NewStyle().
			Foreground(colorMuted),
		Cell: r.NewStyle().
			Padding(0, 1),
		Heading: r.NewStyle().
			Bold(true).
			Padding(0, 1),
	}
}

// TitleCase capitalises each word: "population growth" -> "Population Growth".
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}
