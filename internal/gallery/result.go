package gallery

import (
	"errors"

	"github.com/five82/frame/internal/api"
)

var (
	// ErrInFlight is returned when an operation of the same kind is running.
	ErrInFlight = errors.New("operation already in progress")
	// ErrUnknownImage is returned when an id does not resolve to a loaded image.
	ErrUnknownImage = errors.New("unknown image")
	// ErrNotConfirmed is returned for deletes the user did not confirm.
	ErrNotConfirmed = errors.New("delete not confirmed")
	// ErrNotAuthenticated is returned when no user is signed in.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrRefused is returned when the service answered with status=false or
	// a falsy payload.
	ErrRefused = errors.New("refused by service")
)

// Op names a gallery operation. Each op has its own in-flight slot.
type Op string

const (
	OpLoad    Op = "load"
	OpUpload  Op = "upload"
	OpEdit    Op = "edit"
	OpDelete  Op = "delete"
	OpReorder Op = "reorder"
)

// Status is the outcome of an operation.
type Status int

const (
	Succeeded Status = iota
	Failed
	// Rejected means the request never reached the service: validation,
	// confirmation, unknown ids or an operation already in flight.
	Rejected
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result reports what an operation did. Message is ready to show the user.
type Result struct {
	Op         Op
	Status     Status
	Message    string
	Err        error
	RolledBack bool
	Images     []api.Image // records returned by the service, if any
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == Succeeded
}

func succeeded(op Op, msg string) Result {
	return Result{Op: op, Status: Succeeded, Message: msg}
}

func failed(op Op, msg string, err error) Result {
	return Result{Op: op, Status: Failed, Message: msg, Err: err}
}

func rejected(op Op, msg string, err error) Result {
	return Result{Op: op, Status: Rejected, Message: msg, Err: err}
}
