package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/frame/internal/state"
)

// openViewer selects the image under the cursor for full view.
func (m Model) openViewer() (tea.Model, tea.Cmd) {
	images := m.snapshot.Images
	if m.cursor >= len(images) {
		return m, nil
	}
	store := m.gallery.Store()
	if !store.Select(images[m.cursor].ID) {
		return m, nil
	}
	m.snapshot = store.Snapshot()
	return m, nil
}

func (m Model) closeViewer() Model {
	store := m.gallery.Store()
	store.ClearSelection()
	m.snapshot = store.Snapshot()
	return m
}

// handleViewerKey steps through the gallery while the full view is open.
// The cursor follows so closing returns to the image last shown.
func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, ok := m.snapshot.Selected()
	if !ok {
		return m.closeViewer(), nil
	}
	idx := state.IndexOf(m.snapshot.Images, selected.ID)

	delta := 0
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.View):
		return m.closeViewer(), nil
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		delta = -1
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down):
		delta = 1
	case key.Matches(msg, m.keys.Edit):
		return m.openModal(newEditModal(selected))
	case key.Matches(msg, m.keys.Delete):
		return m.requestDelete(selected)
	default:
		return m, nil
	}

	id, ok := neighbourID(m.snapshot.Images, idx, delta)
	if !ok {
		return m, nil
	}
	store := m.gallery.Store()
	store.Select(id)
	m.snapshot = store.Snapshot()
	m.cursor = idx + delta
	return m, nil
}

// renderViewer shows the selected image's details. Pixels are left to the
// image URL.
func (m Model) renderViewer(height int) string {
	styles := m.theme.Styles()
	selected, ok := m.snapshot.Selected()
	if !ok {
		return ""
	}
	idx := state.IndexOf(m.snapshot.Images, selected.ID)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(selected.Title))
	b.WriteString("\n\n")
	b.WriteString(styles.Label.Render("Image"))
	b.WriteString(styles.AccentText.Render(selected.ImageURL))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("Position"))
	b.WriteString(styles.Text.Render(fmt.Sprintf("%d of %d", idx+1, len(m.snapshot.Images))))
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("ID"))
	b.WriteString(styles.FaintText.Render(selected.ID))
	b.WriteString("\n\n")
	b.WriteString(styles.KeyHint.Render("h/l") + styles.MutedText.Render(" previous/next   ") +
		styles.KeyHint.Render("e") + styles.MutedText.Render(" edit   ") +
		styles.KeyHint.Render("d") + styles.MutedText.Render(" delete   ") +
		styles.KeyHint.Render("esc") + styles.MutedText.Render(" close"))

	width := m.width - 8
	if width > 90 {
		width = 90
	}
	if width < 20 {
		width = 20
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.Modal.Width(width).Render(b.String()))
}
