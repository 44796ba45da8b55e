package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/frame/internal/api"
)

const (
	cardHeight   = 4 // two content lines plus border
	minCardWidth = 16
)

// gridMove returns the cursor after moving dRow rows and dCol columns in a
// grid of n items laid out cols wide. Moves past the edges clamp.
func gridMove(cursor, n, cols, dRow, dCol int) int {
	if n == 0 {
		return 0
	}
	if cols < 1 {
		cols = 1
	}
	next := cursor + dCol + dRow*cols
	if dRow != 0 && (next < 0 || next >= n) {
		// Vertical moves that fall off the grid stay put.
		return clampCursor(cursor, n)
	}
	return clampCursor(next, n)
}

func clampCursor(cursor, n int) int {
	switch {
	case n == 0 || cursor < 0:
		return 0
	case cursor >= n:
		return n - 1
	default:
		return cursor
	}
}

// neighbourID returns the id of the image delta positions away from idx.
func neighbourID(images []api.Image, idx, delta int) (string, bool) {
	j := idx + delta
	if idx < 0 || idx >= len(images) || j < 0 || j >= len(images) {
		return "", false
	}
	return images[j].ID, true
}

// firstVisibleRow keeps the cursor's row inside a window of visible rows.
func firstVisibleRow(cursor, cols, visible, current int) int {
	if cols < 1 || visible < 1 {
		return 0
	}
	row := cursor / cols
	switch {
	case row < current:
		return row
	case row >= current+visible:
		return row - visible + 1
	default:
		return current
	}
}

func (m Model) columns() int {
	cols := m.prefs.GridColumns
	if cols < 1 {
		cols = 1
	}
	if m.width > 0 {
		for cols > 1 && m.width/cols < minCardWidth {
			cols--
		}
	}
	return cols
}

// renderGrid draws the gallery as rows of cards.
func (m Model) renderGrid(height int) string {
	styles := m.theme.Styles()
	images := m.snapshot.Images
	if len(images) == 0 {
		msg := "No images yet. Press u to upload some."
		if !m.snapshot.Loaded {
			msg = "Loading gallery..."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	cols := m.columns()
	cardWidth := m.width/cols - 2
	textWidth := cardWidth - 4
	if textWidth < 1 {
		textWidth = 1
	}
	visible := height / cardHeight
	if visible < 1 {
		visible = 1
	}
	start := m.scrollRow * cols
	end := start + visible*cols
	if end > len(images) {
		end = len(images)
	}

	var rows []string
	for rowStart := start; rowStart < end; rowStart += cols {
		var cards []string
		for i := rowStart; i < rowStart+cols && i < end; i++ {
			img := images[i]
			style := styles.Card
			switch {
			case img.ID == m.grabbed:
				style = styles.CardGrabbed
			case i == m.cursor:
				style = styles.CardSelected
			}
			title := truncate(img.Title, textWidth)
			meta := truncate(fmt.Sprintf("#%d  %s", img.Order, shortID(img.ID)), textWidth)
			cards = append(cards, style.Width(cardWidth).Render(title+"\n"+styles.FaintText.Render(meta)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(rows, "\n"))
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 || len(r) <= 1 {
		return string(r[:1])
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
