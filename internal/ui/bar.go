package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar renders the header and footer lines on a solid background. lipgloss
// resets the background after every styled segment, so the gaps between
// segments are rendered with the bar colour too.
type bar struct {
	bg    lipgloss.Color
	fill  lipgloss.Style
	space string
}

func newBar(color string) bar {
	bg := lipgloss.Color(color)
	fill := lipgloss.NewStyle().Background(bg)
	return bar{bg: bg, fill: fill, space: fill.Render(" ")}
}

// text styles s word by word so inner spaces keep the background.
func (b bar) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	style = style.Background(b.bg)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b bar) join(parts []string, sep string) string {
	return strings.Join(parts, b.fill.Render(sep))
}

// line pads content to width.
func (b bar) line(content string, width int) string {
	return b.fill.Width(width).Render(content)
}
