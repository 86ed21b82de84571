package testutil

import (
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/google/uuid"
)

// BaseDay is the reference instant used by attendance fixtures: a Monday
// morning at 09:00 UTC, whole seconds so RFC3339 round-trips are exact.
var BaseDay = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

// At returns a time on the fixture day at the given hour and minute.
func At(hour, min int) time.Time {
	return time.Date(2025, 6, 16, hour, min, 0, 0, time.UTC)
}

// Record options
type RecordOption func(*domain.WorkDayRecord)

func WithClockIn(t time.Time) RecordOption {
	return func(r *domain.WorkDayRecord) {
		r.ClockInAt = &t
	}
}

func WithClockOut(t time.Time) RecordOption {
	return func(r *domain.WorkDayRecord) {
		r.ClockOutAt = &t
	}
}

func WithBreak(start, end time.Time) RecordOption {
	return func(r *domain.WorkDayRecord) {
		r.Breaks = append(r.Breaks, domain.BreakInterval{Start: start, End: &end})
	}
}

func WithOpenBreak(start time.Time) RecordOption {
	return func(r *domain.WorkDayRecord) {
		r.Breaks = append(r.Breaks, domain.BreakInterval{Start: start})
	}
}

func WithDate(date string) RecordOption {
	return func(r *domain.WorkDayRecord) {
		r.Date = date
	}
}

// NewTestRecord creates a work day record for the fixture day.
func NewTestRecord(employeeID string, opts ...RecordOption) *domain.WorkDayRecord {
	r := domain.NewWorkDayRecord(employeeID, BaseDay)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestNotification creates a notification fixture.
func NewTestNotification(employeeID, title, message string) *domain.Notification {
	return &domain.Notification{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Title:      title,
		Message:    message,
		CreatedAt:  BaseDay,
	}
}
