package credentials

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError reports a vault identity that cannot be used in a request.
type ValidationError struct {
	Identity string
	Reason   string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid vault identity %q: %s", e.Identity, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// DecodeError reports helper output that does not hold a usable response.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode helper response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var derr *DecodeError
	return errors.As(err, &derr)
}
