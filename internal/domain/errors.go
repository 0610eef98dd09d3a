package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEnumerationFailed wraps any failure to snapshot the process table.
	ErrEnumerationFailed = errors.New("failed to enumerate processes")

	// ErrProcessNotFound means the pid does not name a running process.
	ErrProcessNotFound = errors.New("process not found")

	// ErrStateIO wraps read/write failures of the persisted state.
	ErrStateIO = errors.New("state io error")

	// ErrStateEncoding wraps (de)serialization failures of the persisted state.
	ErrStateEncoding = errors.New("state serialization error")

	// ErrStartupRegistration wraps failures of the startup registrar.
	ErrStartupRegistration = errors.New("startup registration error")
)

// FreezeError reports a failed freeze of a single process.
type FreezeError struct {
	PID    int
	Reason string
	Err    error
}

func (e *FreezeError) Error() string {
	return fmt.Sprintf("failed to freeze process %d: %s", e.PID, e.Reason)
}

func (e *FreezeError) Unwrap() error {
	return e.Err
}

// ResumeError reports a failed resume of a single process.
type ResumeError struct {
	PID    int
	Reason string
	Err    error
}

func (e *ResumeError) Error() string {
	return fmt.Sprintf("failed to resume process %d: %s", e.PID, e.Reason)
}

func (e *ResumeError) Unwrap() error {
	return e.Err
}
