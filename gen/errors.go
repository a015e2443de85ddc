package gen

import (
	"errors"
	"fmt"
)

var (
	ErrProcessTerminated = errors.New("process terminated")
	ErrProcessUnknown    = errors.New("unknown process")
	ErrNameUnknown       = errors.New("unknown name")
	ErrTaken             = errors.New("resource is taken")

	ErrMalformed = errors.New("malformed value")
	ErrIncorrect = errors.New("incorrect value or argument")
	ErrTimeout   = errors.New("timed out")
)

var (
	// TerminateReasonNormal is the reason of a process whose action
	// returned nil.
	TerminateReasonNormal error = errors.New("normal")

	// TerminateReasonKill indicates the process was forcefully killed.
	TerminateReasonKill error = errors.New("kill")

	// TerminateReasonPanic indicates the process terminated due to a panic
	// in its action.
	TerminateReasonPanic error = errors.New("panic")

	// TerminateReasonShutdown indicates the process was asked to terminate
	// by the scope or supervisor owning it.
	TerminateReasonShutdown error = errors.New("shutdown")
)

// ExitError is the asynchronous exit signal. It is delivered to a process
// by SendExit and by the termination of a linked process, and is observed
// as the error returned from the next suspension point (Receive, Dispatch,
// Call). PID is the terminated (or sending) process, Reason the exit
// reason, reachable with errors.Is/errors.As through Unwrap.
type ExitError struct {
	PID    PID
	Reason error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %s", e.PID, e.Reason)
}

func (e *ExitError) Unwrap() error {
	return e.Reason
}
