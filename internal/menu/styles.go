package menu

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the styles used to draw the selection menu. Styles are
// bound to a renderer for the output writer so that redirected output
// stays free of escape sequences.
type Theme struct {
	Index     lipgloss.Style
	Entry     lipgloss.Style
	Size      lipgloss.Style
	Good      lipgloss.Style
	Separator lipgloss.Style
	Command   lipgloss.Style
	Default   lipgloss.Style
	Prompt    lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
}

func newTheme(w io.Writer) Theme {
	r := lipgloss.NewRenderer(w)
	return Theme{
		Index: r.NewStyle().
			Foreground(lipgloss.Color("#7B61FF")),
		Entry: r.NewStyle(),
		Size: r.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Good: r.NewStyle().
			Foreground(lipgloss.Color("#73F59F")).
			Bold(true),
		Separator: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Command: r.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Default: r.NewStyle().
			Foreground(lipgloss.Color("#73F59F")).
			Bold(true),
		Prompt: r.NewStyle().
			Bold(true),
		Error: r.NewStyle().
			Foreground(lipgloss.Color("#FF0000")),
		Notice: r.NewStyle().
			Foreground(lipgloss.Color("#959595")),
	}
}
