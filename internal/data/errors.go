package data

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a page mutation's version
	// precondition no longer holds (another writer got there first).
	ErrVersionConflict = errors.New("page version conflict")

	// ErrEditNotPending is returned when a status transition is attempted
	// on an edit that is no longer PENDING.
	ErrEditNotPending = errors.New("edit is not pending")
)
