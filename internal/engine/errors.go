package engine

import (
	"errors"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// The engine surfaces guard violations with the domain sentinels and adds
// the two infrastructure failure modes of the submit path.
var (
	// ErrInvalidTransition: guard violated, recoverable by choosing a
	// different action.
	ErrInvalidTransition = domain.ErrInvalidTransition

	// ErrDayAlreadyClosed: terminal for the day.
	ErrDayAlreadyClosed = domain.ErrDayAlreadyClosed

	// ErrConcurrentModification: a simultaneous transition won the write
	// race. Transient; re-read state and retry.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrStoreUnavailable: the record store failed or timed out. Surfaced
	// verbatim, never silently degraded.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
