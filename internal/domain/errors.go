package domain

import "errors"

var (
	// ErrInvalidTransition indicates the requested event is not allowed
	// from the record's current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDayAlreadyClosed indicates the day has a clock-out and accepts
	// no further transitions.
	ErrDayAlreadyClosed = errors.New("day already closed")
)
