// Package app holds the request and view types exchanged between the
// service layer and its callers (CLI, HTTP). Views are presentation
// shaped: formatted dates, minute totals, no live pointers into domain
// state.
package app

import (
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
)

type StatusRequest struct {
	EmployeeID string
	// Now overrides the evaluation time, for tests and replays.
	Now *time.Time
}

type BreakView struct {
	Start   string
	End     *string
	Minutes int
}

// DayView is one working day flattened for display.
type DayView struct {
	EmployeeID    string
	Date          string
	Status        domain.SessionStatus
	ClockInAt     *string
	ClockOutAt    *string
	Breaks        []BreakView
	WorkedMinutes int
	BreakMinutes  int
	Closed        bool
	Version       int
}

type StatusView struct {
	Day         DayView
	GeneratedAt time.Time
}

type HistoryRequest struct {
	EmployeeID string
	// Month filters to a "YYYY-MM" month; empty means most recent days.
	Month string
	// Limit caps recent-mode results. Defaults to 14.
	Limit int
	Now   *time.Time
}

type HistoryResponse struct {
	Days []DayView
	// TotalWorkedMinutes sums worked minutes over the returned days.
	TotalWorkedMinutes int
}

type StatsView struct {
	EmployeeID         string
	Month              string
	WorkDaysThisMonth  int
	WorkedTodayMinutes int
	WorkedMonthMinutes int
	GeneratedAt        time.Time
}

type NotificationView struct {
	ID        string
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}
