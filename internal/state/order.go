package state

import (
	"slices"

	"github.com/five82/frame/internal/api"
)

// IndexOf returns the position of id in images, or -1.
func IndexOf(images []api.Image, id string) int {
	for i, img := range images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// Move returns a copy of images with the element at from reinserted at to.
// It is an array move, not a swap: elements between the two positions shift
// by one. Out-of-range positions return an unchanged copy.
func Move(images []api.Image, from, to int) []api.Image {
	out := cloneImages(images)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

// MoveByID resolves sourceID and targetID to positions and moves the source
// into the target's position. ok is false when either id is unknown.
func MoveByID(images []api.Image, sourceID, targetID string) (moved []api.Image, ok bool) {
	from := IndexOf(images, sourceID)
	to := IndexOf(images, targetID)
	if from < 0 || to < 0 {
		return nil, false
	}
	return Move(images, from, to), true
}

// Renumber returns a copy with order set to each element's 1-based position.
func Renumber(images []api.Image) []api.Image {
	out := cloneImages(images)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// OrderUpdates builds the reorder request body for a sequence.
func OrderUpdates(images []api.Image) []api.OrderUpdate {
	updates := make([]api.OrderUpdate, len(images))
	for i, img := range images {
		updates[i] = api.OrderUpdate{ID: img.ID, Order: img.Order}
	}
	return updates
}
