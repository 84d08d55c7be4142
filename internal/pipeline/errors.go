package pipeline

import (
	"errors"
	"fmt"
)

// Error is a categorized pipeline failure.
type Error struct {
	Code ErrorCode
	// Op is the step or remote call that failed.
	Op      string
	Message string
	Err     error
}

// ErrorCode categorizes pipeline errors.
type ErrorCode string

const (
	// ErrCodeAborted means the sync mode changed mid-run.
	ErrCodeAborted ErrorCode = "ABORTED"

	// ErrCodeValidation means the host plan was unusable (direct-to, empty,
	// or endpoints that are not facilities).
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeUnmappedCode means a runway designator or approach type letter
	// has no host encoding.
	ErrCodeUnmappedCode ErrorCode = "UNMAPPED_CODE"

	// ErrCodeUnavailable means the flight management side never became
	// ready within the configured bound.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"

	// ErrCodeCommandFailed means a remote call returned an error.
	ErrCodeCommandFailed ErrorCode = "COMMAND_FAILED"
)

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsAborted reports whether err is a cooperative cancellation.
func IsAborted(err error) bool { return hasCode(err, ErrCodeAborted) }

// IsValidation reports whether err is a host plan validation failure.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsUnmappedCode reports whether err is an unmapped designator or approach
// type.
func IsUnmappedCode(err error) bool { return hasCode(err, ErrCodeUnmappedCode) }

// IsCommandFailed reports whether err came from a failed remote call.
func IsCommandFailed(err error) bool { return hasCode(err, ErrCodeCommandFailed) }

func abortedError(op string, want, got Mode) *Error {
	return &Error{
		Code:    ErrCodeAborted,
		Op:      op,
		Message: fmt.Sprintf("sync mode changed from %s to %s", want, got),
	}
}

func validationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

func unmappedError(op string, err error) *Error {
	return &Error{Code: ErrCodeUnmappedCode, Op: op, Err: err}
}

func commandError(op string, err error) *Error {
	return &Error{Code: ErrCodeCommandFailed, Op: op, Err: err}
}
