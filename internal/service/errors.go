package service

import (
	"errors"
	"fmt"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")

	// ErrNotFound is returned for a missing id, a foreign tenant's document,
	// a soft-deleted document, and a document the requesting user may not
	// see. The cases are deliberately indistinguishable so existence never
	// leaks across tenants or permissions.
	ErrNotFound = errors.New("document not found")

	// ErrPermissionDenied is returned when a mutation is attempted without a
	// sufficient permission level. Distinct from ErrNotFound: by the time a
	// permission check runs, the caller has already proven visibility.
	ErrPermissionDenied = errors.New("insufficient permissions")
)

// CategoryInUseError blocks category deletion while active documents are
// still assigned. It carries the blocking count so the caller can act.
type CategoryInUseError struct {
	Count int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("cannot delete category: %d documents still assigned", e.Count)
}
