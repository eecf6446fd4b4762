package apierr

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the generation, media and session layers.
var (
	// ErrUpstream marks a bad status or malformed payload from an external service.
	ErrUpstream = errors.New("upstream service error")
	// ErrTransport marks timeouts and connection failures.
	ErrTransport = errors.New("upstream transport error")
	// ErrNotFound marks an unknown session or section.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks a request the client must fix.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error pins an HTTP status and machine code to an underlying error.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Upstream wraps a formatted message with ErrUpstream.
func Upstream(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}

// Transport wraps cause with ErrTransport, keeping cause in the chain.
func Transport(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, op, cause)
}

// SectionNotFoundError reports an unknown section together with the names
// that do exist.
type SectionNotFoundError struct {
	Section   string
	Available []string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found", e.Section)
}

func (e *SectionNotFoundError) Unwrap() error { return ErrNotFound }

// Invalid wraps a formatted message with ErrInvalidArgument.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
