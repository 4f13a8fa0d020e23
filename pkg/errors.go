package patchwork

import (
	"fmt"
)

// InitError is returned when the application could not even start running a
// pipeline: broken configuration, unreadable Patchworkfile, and the like.
type InitError struct {
	err error
}

func NewInitError(err error) InitError {
	return InitError{err: err}
}

func (e InitError) Error() string {
	return e.err.Error()
}

// CommandError is returned by a pipeline invocation that ran but failed.
// ExitStatus carries the status the process should exit with, which is the
// first failing step's exit status when one is available.
type CommandError struct {
	Name       string
	Cause      string
	ExitStatus int
	err        error
}

func NewCommandError(name string, status int, cause string, err error) CommandError {
	return CommandError{Name: name, Cause: cause, ExitStatus: status, err: err}
}

func (e CommandError) Error() string {
	return fmt.Sprintf("pipeline %s failed: %v", e.Name, e.err)
}

// ExecutionErrorReason classifies why an external command could not be run to
// a successful completion.
type ExecutionErrorReason int

const (
	// NotFound means the program could not be located or launched at all.
	NotFound ExecutionErrorReason = iota
	// InvalidWorkingDirectory means the requested working directory does not
	// exist or is not a directory.
	InvalidWorkingDirectory
	// NonZeroExit means the program ran and terminated with a nonzero status.
	NonZeroExit
)

func (r ExecutionErrorReason) String() string {
	switch r {
	case NotFound:
		return "not found"
	case InvalidWorkingDirectory:
		return "invalid working directory"
	case NonZeroExit:
		return "non-zero exit"
	}
	return fmt.Sprintf("unknown reason %d", int(r))
}

// ExecutionError is the adapter-level failure for one external command.
type ExecutionError struct {
	Reason  ExecutionErrorReason
	Program string
	Dir     string
	Status  int
	err     error
}

func (e *ExecutionError) Error() string {
	switch e.Reason {
	case NonZeroExit:
		return fmt.Sprintf("command %s exited with status %d", e.Program, e.Status)
	case InvalidWorkingDirectory:
		return fmt.Sprintf("command %s has an invalid working directory %s: %v", e.Program, e.Dir, e.err)
	}
	return fmt.Sprintf("command %s %s: %v", e.Program, e.Reason, e.err)
}

// ValidationError means the apply-check step rejected the patch: the pipeline
// aborted before any mutation happened.
type ValidationError struct {
	Step string
	err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s rejected the patch: %v", e.Step, e.err)
}

// Cause exposes the underlying failure so that callers unwrapping via
// errors.Cause reach the adapter-level ExecutionError.
func (e *ValidationError) Cause() error {
	return e.err
}

// RestoreError means the must-run restore step itself failed. It is surfaced
// as a warning and never flips an otherwise-successful pipeline to failure,
// but the working tree may be left dirty and needs manual intervention.
type RestoreError struct {
	Step string
	err  error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("must-run step %s failed, the working tree may be left dirty: %v", e.Step, e.err)
}

func (e *RestoreError) Cause() error {
	return e.err
}
