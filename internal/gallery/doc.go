// Package gallery turns user intents (load, reorder, upload, edit, delete)
// into store mutations and remote calls.
//
// Reorder, edit and delete update the store before the request is sent and
// roll back on failure. A rollback only restores the previous images when no
// other mutation landed in between; otherwise the gallery is reloaded from the
// service. Upload waits for the service because ids are assigned remotely.
//
// Every operation returns a Result instead of an error so the caller can pick
// a toast, an inline message or an exit code from one value. At most one
// operation of each Op runs at a time; a second one is Rejected with
// ErrInFlight.
package gallery
