package command

import (
	"errors"
	"time"
)

var (
	// ErrPrecondition marks a command whose precondition check failed. The
	// project was not touched.
	ErrPrecondition = errors.New("precondition failed")
	// ErrNotFound marks a command that referenced a missing clip, track,
	// recording, or effect.
	ErrNotFound = errors.New("not found")
	// ErrBusy is returned when Execute is called while another command is
	// executing.
	ErrBusy = errors.New("another command is currently executing")
	// ErrNothingToUndo is returned by Undo with an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned by Redo when no command is undone.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrNotExecuted is returned when undoing a command that is not executed.
	ErrNotExecuted = errors.New("command has not been executed")
	// ErrAlreadyExecuted is returned when executing or redoing a command that
	// is already executed.
	ErrAlreadyExecuted = errors.New("command is already executed")
	// ErrStopped is returned when the manager is not running.
	ErrStopped = errors.New("command manager is not running")
	// ErrGroupOpen is returned by BeginGroup while a group is open.
	ErrGroupOpen = errors.New("a command group is already open")
	// ErrNoGroup is returned by EndGroup when no group is open.
	ErrNoGroup = errors.New("no command group is open")
	// ErrUnknownCommand is returned by the registry for unregistered names.
	ErrUnknownCommand = errors.New("unknown command")
)

// Result is the outcome of executing, undoing, or redoing a command.
type Result struct {
	Success bool
	Data    any
	Err     error
}

// OK returns a successful result carrying data.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail returns a failed result.
func Fail(err error) Result {
	if err == nil {
		err = errors.New("command failed")
	}
	return Result{Err: err}
}

// Error returns the failure message, or "" for successful results.
func (r Result) Error() string {
	if r.Success || r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Metadata describes a command for history listings and logs.
type Metadata struct {
	Name        string
	Description string
	Category    string
	CreatedAt   time.Time
}
