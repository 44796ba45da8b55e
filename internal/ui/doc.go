// Package ui provides the terminal interface for Frame, built on Bubble Tea.
//
// # Screens
//
// The session gate picks the screen: signed-out users see the login and
// register forms, signed-in users see their gallery. A token that expires
// while the gallery is open sends the user back to login.
//
// The gallery is a grid of cards sized by the grid_columns preference. From
// it the user can:
//
//   - open a full view of one image and step through its neighbours
//   - grab an image (space) and drop it on another position (enter), or
//     nudge it one step with [ and ]
//   - upload a batch, edit a title or file, delete (with confirmation unless
//     confirm_delete is off), change the password and sign out
//   - read the tail of the application log (L)
//
// # Event Flow
//
//  1. Key presses update local state or emit a request message.
//  2. Requests run on a tea.Cmd goroutine against gallery.Service or
//     session.Manager and come back as result messages.
//  3. Results become toasts; the store snapshot is re-read on every result
//     and on a one second tick, which also picks up background refreshes.
//
// Optimistic changes (reorder, and edit and delete when rollback is on) are
// previewed in Update on the key press itself. Snapshots older than the
// preview are ignored until the operation's result arrives.
package ui
