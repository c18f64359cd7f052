package helper

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason classifies why a helper invocation failed.
type Reason string

const (
	// ReasonNotFound means the helper executable could not be located or
	// is not executable.
	ReasonNotFound Reason = "not found"
	// ReasonStartFailed means the helper could not be started.
	ReasonStartFailed Reason = "start failed"
	// ReasonExitStatus means the helper ran and exited unsuccessfully.
	ReasonExitStatus Reason = "exit status"
)

// InvocationError is returned when the helper cannot be run or rejects the
// request.
type InvocationError struct {
	Helper     string
	Subcommand string
	Reason     Reason
	// ExitCode is set for ReasonExitStatus. It is -1 when the helper was
	// terminated by a signal.
	ExitCode int
	Err      error
}

func (e *InvocationError) Error() string {
	switch e.Reason {
	case ReasonNotFound:
		return fmt.Sprintf("credential helper %q not found or not executable: %v", e.Helper, e.Err)
	case ReasonExitStatus:
		return fmt.Sprintf("credential helper %q %s failed: %v", e.Helper, e.Subcommand, e.Err)
	default:
		return fmt.Sprintf("credential helper %q could not be started: %v", e.Helper, e.Err)
	}
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// IsInvocationError reports whether err is, or wraps, an InvocationError.
func IsInvocationError(err error) bool {
	var ierr *InvocationError
	return errors.As(err, &ierr)
}

// IsNotFound reports whether err is an InvocationError for a missing helper.
func IsNotFound(err error) bool {
	var ierr *InvocationError
	return errors.As(err, &ierr) && ierr.Reason == ReasonNotFound
}
