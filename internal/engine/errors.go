package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected in the controller itself, as
// opposed to a pipeline failure, which is recorded in the journal.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// CycleID identifies the affected cycle, if any.
	CycleID string

	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeJournalWrite indicates a cycle could not be recorded.
	ErrCodeJournalWrite RuntimeErrorCode = "JOURNAL_WRITE"

	// ErrCodeModePersist indicates a mode change could not be persisted.
	ErrCodeModePersist RuntimeErrorCode = "MODE_PERSIST"

	// ErrCodeInvalidEvent indicates an event without its payload.
	ErrCodeInvalidEvent RuntimeErrorCode = "INVALID_EVENT"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.CycleID != "" {
		return fmt.Sprintf("%s: %s (cycle=%s)", e.Code, msg, e.CycleID)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsJournalError returns true if the error is a journal write failure.
// Uses errors.As to handle wrapped errors.
func IsJournalError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeJournalWrite
	}
	return false
}

// IsModePersistError returns true if the error is a mode persistence
// failure.
func IsModePersistError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeModePersist
	}
	return false
}

// NewJournalError creates a RuntimeError for a failed journal write.
func NewJournalError(cycleID string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeJournalWrite,
		Message: "failed to record cycle",
		CycleID: cycleID,
		Err:     err,
	}
}

// NewModePersistError creates a RuntimeError for a failed mode write.
func NewModePersistError(mode string, err error) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeModePersist,
		Message: fmt.Sprintf("failed to persist sync mode %s", mode),
		Err:     err,
	}
}
