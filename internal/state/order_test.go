package state

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/frame/internal/api"
)

func gallery(n int) []api.Image {
	images := make([]api.Image, n)
	for i := range images {
		images[i] = api.Image{ID: fmt.Sprintf("img-%d", i), Order: i + 1}
	}
	return images
}

func inOrder(images []api.Image) bool {
	for i, img := range images {
		if img.Order != i+1 {
			return false
		}
	}
	return true
}

func TestMove_AllPositionsKeepContiguousOrder(t *testing.T) {
	for n := 1; n <= 6; n++ {
		images := gallery(n)
		for from := 0; from < n; from++ {
			for to := 0; to < n; to++ {
				moved := Renumber(Move(images, from, to))
				if len(moved) != n {
					t.Fatalf("n=%d %d->%d: len = %d", n, from, to, len(moved))
				}
				if !inOrder(moved) {
					t.Fatalf("n=%d %d->%d: orders not 1..N: %v", n, from, to, moved)
				}
				if moved[to].ID != images[from].ID {
					t.Fatalf("n=%d %d->%d: element at target = %s, want %s", n, from, to, moved[to].ID, images[from].ID)
				}
				seen := map[string]bool{}
				for _, img := range moved {
					if seen[img.ID] {
						t.Fatalf("n=%d %d->%d: duplicate %s", n, from, to, img.ID)
					}
					seen[img.ID] = true
				}
			}
		}
	}
}

func TestMove_IsNotASwap(t *testing.T) {
	got := ids(Move(gallery(4), 0, 2))
	want := []string{"img-1", "img-2", "img-0", "img-3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Move mismatch (-want +got):\n%s", diff)
	}
}

func TestMove_DoesNotAliasInput(t *testing.T) {
	images := gallery(3)
	_ = Move(images, 2, 0)
	if diff := cmp.Diff([]string{"img-0", "img-1", "img-2"}, ids(images)); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestMoveByID_UnknownIDs(t *testing.T) {
	images := gallery(3)
	if _, ok := MoveByID(images, "nope", "img-0"); ok {
		t.Fatalf("MoveByID accepted unknown source")
	}
	if _, ok := MoveByID(images, "img-0", "nope"); ok {
		t.Fatalf("MoveByID accepted unknown target")
	}
}

func TestOrderUpdates(t *testing.T) {
	got := OrderUpdates(Renumber(Move(gallery(3), 2, 0)))
	want := []api.OrderUpdate{{ID: "img-2", Order: 1}, {ID: "img-0", Order: 2}, {ID: "img-1", Order: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("OrderUpdates mismatch (-want +got):\n%s", diff)
	}
}
