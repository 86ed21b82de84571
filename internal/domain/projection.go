package domain

import "time"

// Projection is the UI-facing view of a day: status plus elapsed-time
// summaries. It is derived, never stored, and safe to recompute on every
// display tick.
type Projection struct {
	EmployeeID    string
	Date          string
	Status        SessionStatus
	ClockInAt     *time.Time
	ClockOutAt    *time.Time
	BreakMinutes  int
	WorkedMinutes int
}

// Project computes the display projection for a record at the given time.
// A nil record projects as off with zero elapsed time. While the day is
// open the minutes are live; once closed they are fixed, and replaying the
// finalized record yields the same figures regardless of now.
func Project(r *WorkDayRecord, now time.Time) Projection {
	if r == nil {
		return Projection{Status: StatusOff}
	}
	return Projection{
		EmployeeID:    r.EmployeeID,
		Date:          r.Date,
		Status:        r.Status(),
		ClockInAt:     r.ClockInAt,
		ClockOutAt:    r.ClockOutAt,
		BreakMinutes:  r.BreakMinutes(now),
		WorkedMinutes: r.WorkedMinutes(now),
	}
}
