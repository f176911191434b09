package scratchmap

import (
	"errors"
	"fmt"
)

var (
	// ErrOpen is returned when the backing file cannot be opened or created.
	ErrOpen = errors.New("open backing file")
	// ErrResize is returned when the backing file cannot be resized.
	ErrResize = errors.New("resize backing file")
	// ErrMap is returned when the platform refuses the mapping.
	ErrMap = errors.New("map backing file")
	// ErrUnlink is returned when the directory entry cannot be removed.
	ErrUnlink = errors.New("unlink backing file")
	// ErrClose is returned when the descriptor cannot be closed after mapping.
	ErrClose = errors.New("close backing file")
	// ErrWrite is returned when the message cannot be stored in the mapping.
	ErrWrite = errors.New("write mapped region")
	// ErrRead is returned when the message cannot be read back from the mapping.
	ErrRead = errors.New("read mapped region")
	// ErrUnmap is returned when the mapping cannot be released.
	// Writes made through the mapping are not reversed.
	ErrUnmap = errors.New("unmap region")
)

// StepError reports which lifecycle operation failed and the platform error behind it.
//
// Both the kind sentinel (ErrOpen, ErrResize, ...) and the platform error
// match errors.Is.
type StepError struct {
	Kind error
	// Op is the system call that failed, e.g. "ftruncate".
	Op   string
	Path string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StepError) Unwrap() []error { return []error{e.Kind, e.Err} }

// CleanupError reports a release that failed while unwinding after an earlier
// error. It is always joined to that earlier error, never returned alone.
type CleanupError struct {
	Op  string
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup: %s failed: %v", e.Op, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
