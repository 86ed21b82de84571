// Package engine owns the attendance state machine for a single employee's
// working day: transition guards, server-side timestamps, per-key
// serialization, and sync event emission.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/repository"
)

// Clock supplies the engine's notion of now. Timestamps are always taken
// here at acceptance time, never from client input.
type Clock func() time.Time

// EventSink receives one SyncEvent per accepted transition. Delivery is
// best effort; consumers that miss an event re-fetch the record.
type EventSink interface {
	Publish(ev domain.SyncEvent)
}

// NoopSink discards all events.
type NoopSink struct{}

func (NoopSink) Publish(domain.SyncEvent) {}

const defaultStoreTimeout = 10 * time.Second

// Engine validates and applies attendance transitions. All writes go
// through Submit; no other component mutates records.
type Engine struct {
	uow          db.UnitOfWork
	sink         EventSink
	now          Clock
	storeTimeout time.Duration
	locks        *keyedMutex

	// repos builds the tx-scoped store adapter; swappable in tests.
	repos func(conn db.DBTX) repository.RecordRepo
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine clock, for tests.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.now = c }
}

// WithStoreTimeout bounds each submit's store I/O.
func WithStoreTimeout(d time.Duration) Option {
	return func(e *Engine) { e.storeTimeout = d }
}

// New creates an Engine over the given unit of work and event sink.
func New(uow db.UnitOfWork, sink EventSink, opts ...Option) *Engine {
	e := &Engine{
		uow:  uow,
		sink: sink,
		// Whole-second timestamps so persisted RFC3339 values replay to
		// identical projections.
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		storeTimeout: defaultStoreTimeout,
		locks:        newKeyedMutex(),
		repos: func(conn db.DBTX) repository.RecordRepo {
			return repository.NewSQLiteRecordRepo(conn)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit validates and applies one transition for the employee. The
// read-validate-write cycle runs inside a transaction under a per-employee
// lock; a racing writer that slips past the lock (another process on the
// same store) is caught by the version check and reported as
// ErrConcurrentModification. The sink is notified only after the lock is
// released, so a slow event consumer cannot stall the employee's next
// transition.
//
// Rollover policy: a working day is keyed by the calendar date of its
// clock-in. A day left open past midnight keeps accruing on its own record
// and remains the transition target until clocked out; a fresh clock-in is
// rejected while an earlier day is still open.
func (e *Engine) Submit(ctx context.Context, employeeID string, event domain.TransitionEvent) (domain.SessionStatus, *domain.WorkDayRecord, error) {
	if employeeID == "" {
		return domain.StatusOff, nil, fmt.Errorf("employee id is required: %w", ErrInvalidTransition)
	}
	if !domain.ValidTransitionEvents[string(event)] {
		return domain.StatusOff, nil, fmt.Errorf("unknown event %q: %w", event, ErrInvalidTransition)
	}

	result, acceptedAt, err := e.apply(ctx, employeeID, event)
	if err != nil {
		return domain.StatusOff, nil, err
	}

	e.sink.Publish(domain.SyncEvent{
		Type:       domain.SyncEventAttendance,
		EmployeeID: employeeID,
		Record:     result.Clone(),
		ServerTime: acceptedAt,
	})
	return result.Status(), result, nil
}

// apply runs the locked transition cycle and returns the stored record
// plus the acceptance timestamp.
func (e *Engine) apply(ctx context.Context, employeeID string, event domain.TransitionEvent) (*domain.WorkDayRecord, time.Time, error) {
	e.locks.lock(employeeID)
	defer e.locks.unlock(employeeID)

	// The clock is read under the lock: timestamps follow acceptance
	// order, so a record's times stay monotonic even when submits race.
	now := e.now()

	ctx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	var result *domain.WorkDayRecord
	err := e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := e.repos(tx)

		rec, expected, err := e.resolveTarget(ctx, repo, employeeID, event, now)
		if err != nil {
			return err
		}

		if err := rec.Apply(event, now); err != nil {
			return err
		}

		if err := repo.Put(ctx, rec, expected); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return fmt.Errorf("transition for %s on %s: %w", employeeID, rec.Date, ErrConcurrentModification)
			}
			return fmt.Errorf("persisting record: %v: %w", err, ErrStoreUnavailable)
		}

		result = rec
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !isDomainError(err) {
			return nil, time.Time{}, fmt.Errorf("store timed out: %w", ErrStoreUnavailable)
		}
		return nil, time.Time{}, err
	}
	return result, now, nil
}

// resolveTarget picks the record a transition applies to: today's record
// when one exists, otherwise a still-open earlier day (which continues
// across midnight), otherwise a fresh record for today.
func (e *Engine) resolveTarget(ctx context.Context, repo repository.RecordRepo, employeeID string, event domain.TransitionEvent, now time.Time) (*domain.WorkDayRecord, int, error) {
	today := domain.DateKey(now)

	rec, err := repo.Get(ctx, employeeID, today)
	switch {
	case err == nil:
		return rec, rec.Version, nil
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, 0, fmt.Errorf("reading record: %v: %w", err, ErrStoreUnavailable)
	}

	recent, err := repo.ListRecent(ctx, employeeID, 1)
	if err != nil {
		return nil, 0, fmt.Errorf("reading recent records: %v: %w", err, ErrStoreUnavailable)
	}
	if len(recent) > 0 {
		last := recent[0]
		if last.ClockInAt != nil && !last.Closed() {
			if event == domain.EventClockIn {
				return nil, 0, fmt.Errorf("day %s is still open, clock out first: %w", last.Date, ErrInvalidTransition)
			}
			return last, last.Version, nil
		}
	}

	return domain.NewWorkDayRecord(employeeID, now), 0, nil
}

func isDomainError(err error) bool {
	return errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrDayAlreadyClosed) ||
		errors.Is(err, ErrConcurrentModification)
}
