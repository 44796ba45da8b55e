package ui

import (
	"testing"

	"github.com/five82/frame/internal/api"
)

func TestGridMove(t *testing.T) {
	tests := []struct {
		name                 string
		cursor, n, cols      int
		dRow, dCol, expected int
	}{
		{"right", 0, 7, 3, 0, 1, 1},
		{"right wraps to next row", 2, 7, 3, 0, 1, 3},
		{"right clamps at end", 6, 7, 3, 0, 1, 6},
		{"left clamps at start", 0, 7, 3, 0, -1, 0},
		{"down", 1, 7, 3, 1, 0, 4},
		{"down off partial row stays", 4, 7, 3, 1, 0, 4},
		{"down into partial row", 3, 7, 3, 1, 0, 6},
		{"up", 4, 7, 3, -1, 0, 1},
		{"up off top stays", 1, 7, 3, -1, 0, 1},
		{"empty grid", 0, 0, 3, 1, 0, 0},
		{"zero columns act as one", 0, 3, 0, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gridMove(tt.cursor, tt.n, tt.cols, tt.dRow, tt.dCol); got != tt.expected {
				t.Fatalf("gridMove(%d, %d, %d, %d, %d) = %d, want %d",
					tt.cursor, tt.n, tt.cols, tt.dRow, tt.dCol, got, tt.expected)
			}
		})
	}
}

func TestFirstVisibleRow(t *testing.T) {
	tests := []struct {
		cursor, cols, visible, current, expected int
	}{
		{0, 3, 2, 0, 0},
		{5, 3, 2, 0, 0},
		{6, 3, 2, 0, 1},
		{11, 3, 2, 0, 2},
		{0, 3, 2, 3, 0},
		{7, 3, 2, 2, 2},
	}
	for _, tt := range tests {
		if got := firstVisibleRow(tt.cursor, tt.cols, tt.visible, tt.current); got != tt.expected {
			t.Errorf("firstVisibleRow(%d, %d, %d, %d) = %d, want %d",
				tt.cursor, tt.cols, tt.visible, tt.current, got, tt.expected)
		}
	}
}

func TestNeighbourID(t *testing.T) {
	images := []api.Image{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	if id, ok := neighbourID(images, 1, -1); !ok || id != "a" {
		t.Fatalf("neighbourID(1, -1) = %q, %v", id, ok)
	}
	if id, ok := neighbourID(images, 1, 1); !ok || id != "c" {
		t.Fatalf("neighbourID(1, 1) = %q, %v", id, ok)
	}
	if _, ok := neighbourID(images, 0, -1); ok {
		t.Fatal("expected no neighbour before the first image")
	}
	if _, ok := neighbourID(images, 2, 1); ok {
		t.Fatal("expected no neighbour after the last image")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Sunset", 10); got != "Sunset" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("Sunset over the bay", 8); got != "Sunset …" && got != "Sunset…" {
		t.Fatalf("truncate long = %q", got)
	}
	if got := truncate("Sunset", 1); got != "S" {
		t.Fatalf("truncate to one = %q", got)
	}
}

func TestSplitLists(t *testing.T) {
	if got := splitList(" a.png, ,b.png ,"); len(got) != 2 || got[0] != "a.png" || got[1] != "b.png" {
		t.Fatalf("splitList = %q", got)
	}
	if got := splitTitles("One,,Three"); len(got) != 3 || got[1] != "" {
		t.Fatalf("splitTitles = %q", got)
	}
	if got := splitTitles("  "); got != nil {
		t.Fatalf("splitTitles blank = %q, want nil", got)
	}
}
