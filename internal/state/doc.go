// Package state holds the in-memory gallery for the current session.
//
// # Overview
//
// Store is the source of truth for what the UI renders: the ordered images
// of the signed-in user and the image open in full view. The remote service
// is the only durable store; this package never persists anything.
//
// # Architecture
//
//	Producers:                        Consumers:
//	┌─────────────────────┐          ┌──────────────────┐
//	│ gallery.Service     │          │ ui.Model         │
//	│  Load / Move / ...  │──Store──→│  store.Snapshot()│
//	│ app refresher       │ (mutex)  │  render          │
//	└─────────────────────┘          └──────────────────┘
//
// # Invariants
//
//   - Images are ordered by Order ascending after Load.
//   - Load never installs a listing fetched before a later mutation.
//   - After ReorderAll, Order equals the 1-based position of every element.
//   - ReplaceOne and RemoveOne never insert; unknown ids are no-ops.
//   - Every mutation bumps Version. RestoreIf uses it to refuse rolling back
//     over a mutation that landed after the snapshot was taken.
//   - Snapshot returns copies; callers may modify them freely.
//
// # Ordering helpers
//
// order.go carries the pure sequence functions used by the reorder path:
// IndexOf, Move (array move, not swap), MoveByID, Renumber and OrderUpdates.
package state
