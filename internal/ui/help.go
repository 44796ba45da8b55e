package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var helpTitles = []string{"Navigation", "Reorder", "Images", "General"}

const helpKeyWidth = 12

// renderHelp draws the key bindings of FullHelp as a centred overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	keyStyle := styles.KeyHint.Width(helpKeyWidth)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))

	for i, group := range m.keys.FullHelp() {
		b.WriteString("\n\n")
		if i < len(helpTitles) {
			b.WriteString(styles.AccentText.Bold(true).Render(helpTitles[i]))
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString("\n")
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("In full view h/l step through images, esc closes."))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		styles.Modal.Width(52).Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
