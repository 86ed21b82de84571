package repository

import (
	"context"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// RecordRepo is the record store contract. It is the sole writer of work
// day records; all writes are versioned so concurrent transitions fail
// with ErrVersionConflict instead of silently clobbering each other.
type RecordRepo interface {
	// Get returns the record for the employee and date, or ErrNotFound.
	Get(ctx context.Context, employeeID, date string) (*domain.WorkDayRecord, error)

	// Put persists the record. expectedVersion 0 creates a new record;
	// any other value updates an existing row only if its stored version
	// still matches. On success the record's Version is bumped.
	Put(ctx context.Context, r *domain.WorkDayRecord, expectedVersion int) error

	// ListRecent returns up to limit records, most recent first.
	ListRecent(ctx context.Context, employeeID string, limit int) ([]*domain.WorkDayRecord, error)

	// ListMonth returns the records of a "YYYY-MM" month in date order,
	// one entry per day with any activity.
	ListMonth(ctx context.Context, employeeID, yearMonth string) ([]*domain.WorkDayRecord, error)

	// CountActiveDays counts the days of a "YYYY-MM" month with a clock-in.
	CountActiveDays(ctx context.Context, employeeID, yearMonth string) (int, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByEmployee(ctx context.Context, employeeID string, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
}
