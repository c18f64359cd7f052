package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Error is returned when a required setting cannot be resolved. Setting is
// empty for problems not tied to one setting, such as an unparsable file.
type Error struct {
	Setting string
	Err     error
}

func (e *Error) Error() string {
	if e.Setting == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration for %s: %v", e.Setting, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsError reports whether err, or any error it wraps, is a configuration error.
func IsError(err error) bool {
	var cerr *Error
	return errors.As(err, &cerr)
}

// joinErrors renders a multierror on a single line.
func joinErrors(es []error) string {
	msgs := make([]string, len(es))
	for i, err := range es {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
