package services

import (
	"fmt"
)

// ValidationError is returned before any I/O when the upload request itself
// is unacceptable. Resubmitting with a valid name succeeds.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StorageError means the blob write failed. No metadata record was created,
// though the backend may hold partial data it could not clean up.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage backend %s: %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MetadataError means the blob was written but its record could not be
// created. Location names the orphaned blob; nothing removes it.
type MetadataError struct {
	Location string
	Err      error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("record metadata for %s: %v", e.Location, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }
