package repository

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist. Callers
	// treat an absent work day record as an implicit off state.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict indicates an optimistic write lost a race: the
	// stored version no longer matches the expected one.
	ErrVersionConflict = errors.New("version conflict")
)
