package state

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/five82/frame/internal/api"
)

// Lister fetches every image a user owns.
type Lister interface {
	ListImages(ctx context.Context, userID string) ([]api.Image, error)
}

// Snapshot represents the gallery as the UI should render it.
type Snapshot struct {
	Images              []api.Image
	SelectedID          string // full-view target; empty when none
	Version             uint64 // bumped by every mutation
	Loaded              bool
	LastLoaded          time.Time
	LastError           error
	ConsecutiveFailures int
}

// Selected returns the selected image, if it is still present.
func (s Snapshot) Selected() (api.Image, bool) {
	if s.SelectedID == "" {
		return api.Image{}, false
	}
	idx := IndexOf(s.Images, s.SelectedID)
	if idx < 0 {
		return api.Image{}, false
	}
	return s.Images[idx], true
}

// IsOffline returns true when loads have failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store holds the gallery for the current session and coordinates
// concurrent access from UI commands and the background refresher.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Load fetches all images for userID, sorts them by order and replaces the
// sequence wholesale. On error the previous images are kept, the error is
// recorded and returned.
//
// A listing is only installed when no mutation landed while it was in
// flight. Otherwise it is fetched once more, and if that one is overtaken
// too it is dropped and the newer local state stays.
func (s *Store) Load(ctx context.Context, lister Lister, userID string) error {
	for attempt := 0; attempt < 2; attempt++ {
		version := s.Version()
		images, err := lister.ListImages(ctx, userID)
		if err != nil {
			s.recordFailure(err)
			return fmt.Errorf("load images: %w", err)
		}
		if s.ReplaceIf(version, images) {
			return nil
		}
	}
	return nil
}

// Version returns the current mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

// Replace installs a full server listing, sorted by order ascending.
func (s *Store) Replace(images []api.Image) {
	sorted := sortedByOrder(images)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(sorted)
}

// ReplaceIf installs images like Replace, but only while the store is still
// at version. It reports whether the listing was installed.
func (s *Store) ReplaceIf(version uint64, images []api.Image) bool {
	sorted := sortedByOrder(images)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Version != version {
		return false
	}
	s.install(sorted)
	return true
}

func (s *Store) install(sorted []api.Image) {
	s.snapshot.Images = sorted
	s.snapshot.Loaded = true
	s.snapshot.LastLoaded = time.Now()
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.dropStaleSelection()
	s.snapshot.Version++
}

func sortedByOrder(images []api.Image) []api.Image {
	sorted := cloneImages(images)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return sorted
}

func (s *Store) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
}

// AppendMany adds freshly uploaded records at the tail in the order given.
// The sequence is not re-sorted.
func (s *Store) AppendMany(records []api.Image) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Images = append(s.snapshot.Images, cloneImages(records)...)
	s.snapshot.Version++
}

// ReplaceOne merges the non-empty fields of record into the entry with the
// given id. It reports false, and changes nothing, when id is absent.
func (s *Store) ReplaceOne(id string, record api.Image) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := IndexOf(s.snapshot.Images, id)
	if idx < 0 {
		return false
	}
	images := cloneImages(s.snapshot.Images)
	images[idx] = merge(images[idx], record)
	s.snapshot.Images = images
	s.snapshot.Version++
	return true
}

// RemoveOne drops the entry with the given id. It reports false when absent.
func (s *Store) RemoveOne(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := IndexOf(s.snapshot.Images, id)
	if idx < 0 {
		return false
	}
	s.snapshot.Images = slices.Delete(cloneImages(s.snapshot.Images), idx, idx+1)
	s.dropStaleSelection()
	s.snapshot.Version++
	return true
}

// ReorderAll installs sequence as the gallery order and renumbers every
// element to its 1-based position. Records come from the store, so fields
// changed since sequence was read are kept. It returns the state before the
// change and the version after it, for RestoreIf. ok is false, and nothing
// changes, unless sequence holds exactly the ids the store holds.
func (s *Store) ReorderAll(sequence []api.Image) (prev Snapshot, version uint64, ok bool) {
	return s.Apply(func(current []api.Image) ([]api.Image, bool) {
		if len(sequence) != len(current) {
			return nil, false
		}
		next := make([]api.Image, 0, len(sequence))
		seen := make(map[string]bool, len(sequence))
		for _, img := range sequence {
			idx := IndexOf(current, img.ID)
			if idx < 0 || seen[img.ID] {
				return nil, false
			}
			seen[img.ID] = true
			next = append(next, current[idx])
		}
		return Renumber(next), true
	})
}

// Apply runs fn on a copy of the images under the write lock and installs
// the result when fn reports true. It returns the state before the change and
// the version after it, which is what RestoreIf expects for a rollback.
func (s *Store) Apply(fn func([]api.Image) ([]api.Image, bool)) (prev Snapshot, version uint64, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev = s.snapshot
	prev.Images = cloneImages(s.snapshot.Images)
	next, ok := fn(cloneImages(s.snapshot.Images))
	if !ok {
		return prev, s.snapshot.Version, false
	}
	s.snapshot.Images = next
	s.dropStaleSelection()
	s.snapshot.Version++
	return prev, s.snapshot.Version, true
}

// Select marks id as the full-view target. It reports false when absent.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if IndexOf(s.snapshot.Images, id) < 0 {
		return false
	}
	s.snapshot.SelectedID = id
	return true
}

// ClearSelection closes the full view.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.SelectedID = ""
}

// Reset empties the store, e.g. on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	version := s.snapshot.Version
	s.snapshot = Snapshot{Version: version + 1}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Images = cloneImages(s.snapshot.Images)
	return snap
}

// RestoreIf puts back the images of prev when the store is still at version,
// i.e. nothing else mutated it since. It reports whether the restore happened.
func (s *Store) RestoreIf(version uint64, prev Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Version != version {
		return false
	}
	s.snapshot.Images = cloneImages(prev.Images)
	s.dropStaleSelection()
	s.snapshot.Version++
	return true
}

func (s *Store) dropStaleSelection() {
	if s.snapshot.SelectedID != "" && IndexOf(s.snapshot.Images, s.snapshot.SelectedID) < 0 {
		s.snapshot.SelectedID = ""
	}
}

func merge(dst, src api.Image) api.Image {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.ImageURL != "" {
		dst.ImageURL = src.ImageURL
	}
	if src.UserID != "" {
		dst.UserID = src.UserID
	}
	return dst
}

func cloneImages(images []api.Image) []api.Image {
	if len(images) == 0 {
		return nil
	}
	dup := make([]api.Image, len(images))
	copy(dup, images)
	return dup
}
