package persist

import (
	"errors"
	"fmt"
)

var (
	// ErrRestore is matched by every *StorageRestoreError.
	ErrRestore = errors.New("storage restore failed")
	// ErrSync is matched by every *SyncError.
	ErrSync = errors.New("storage sync failed")
)

// StorageRestoreError records a slot that could not be read or parsed at
// load and was reset to its default.
type StorageRestoreError struct {
	Slot string
	Err  error
}

func (e *StorageRestoreError) Error() string {
	return fmt.Sprintf("restore slot %s: %v", e.Slot, e.Err)
}

func (e *StorageRestoreError) Unwrap() error { return e.Err }

func (e *StorageRestoreError) Is(target error) bool { return target == ErrRestore }

// SyncError records a failed flush. The next mutation schedules a retry.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("flush: %v", e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

func (e *SyncError) Is(target error) bool { return target == ErrSync }
