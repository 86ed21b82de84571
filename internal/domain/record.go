package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date key format for work day records.
const DateLayout = "2006-01-02"

// DateKey returns the record partition key for the given instant.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// BreakInterval is one break within a working day. An interval with a nil
// End is "open": the employee is currently on break.
type BreakInterval struct {
	Start time.Time
	End   *time.Time
}

// Minutes returns the closed duration of the interval, or the elapsed
// duration up to now if the interval is still open.
func (b BreakInterval) Minutes(now time.Time) int {
	end := now
	if b.End != nil {
		end = *b.End
	}
	d := end.Sub(b.Start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// WorkDayRecord is one employee's attendance record for one calendar day.
// At most one record exists per (EmployeeID, Date). All duration figures
// are derived from the timestamps; none are stored as ground truth.
type WorkDayRecord struct {
	EmployeeID string
	Date       string
	ClockInAt  *time.Time
	ClockOutAt *time.Time
	Breaks     []BreakInterval

	// Version increments on every accepted write and backs the store's
	// optimistic concurrency check.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWorkDayRecord creates an empty record for the employee and day.
func NewWorkDayRecord(employeeID string, now time.Time) *WorkDayRecord {
	return &WorkDayRecord{
		EmployeeID: employeeID,
		Date:       DateKey(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Closed reports whether the day has been clocked out.
func (r *WorkDayRecord) Closed() bool {
	return r.ClockOutAt != nil
}

// OpenBreak returns a pointer to the currently open break interval, or nil.
func (r *WorkDayRecord) OpenBreak() *BreakInterval {
	for i := range r.Breaks {
		if r.Breaks[i].End == nil {
			return &r.Breaks[i]
		}
	}
	return nil
}

// Status derives the session status from the record. A closed day and an
// absent clock-in both project as off.
func (r *WorkDayRecord) Status() SessionStatus {
	if r == nil || r.ClockInAt == nil || r.Closed() {
		return StatusOff
	}
	if r.OpenBreak() != nil {
		return StatusBreak
	}
	return StatusWorking
}

// Apply validates and applies a transition event at the given server time.
// Timestamps are always assigned here, never taken from the caller's input,
// so ordering within a day is monotonic.
func (r *WorkDayRecord) Apply(event TransitionEvent, now time.Time) error {
	switch event {
	case EventClockIn:
		return r.clockIn(now)
	case EventClockOut:
		return r.clockOut(now)
	case EventBreakStart:
		return r.startBreak(now)
	case EventBreakEnd:
		return r.endBreak(now)
	default:
		return fmt.Errorf("unknown event %q: %w", event, ErrInvalidTransition)
	}
}

func (r *WorkDayRecord) clockIn(now time.Time) error {
	if r.Closed() {
		return ErrDayAlreadyClosed
	}
	if r.ClockInAt != nil {
		return fmt.Errorf("already clocked in today: %w", ErrInvalidTransition)
	}
	r.ClockInAt = &now
	r.UpdatedAt = now
	return nil
}

func (r *WorkDayRecord) startBreak(now time.Time) error {
	if r.Closed() {
		return ErrDayAlreadyClosed
	}
	if r.ClockInAt == nil {
		return fmt.Errorf("not clocked in: %w", ErrInvalidTransition)
	}
	if r.OpenBreak() != nil {
		return fmt.Errorf("break already open: %w", ErrInvalidTransition)
	}
	r.Breaks = append(r.Breaks, BreakInterval{Start: now})
	r.UpdatedAt = now
	return nil
}

func (r *WorkDayRecord) endBreak(now time.Time) error {
	if r.Closed() {
		return ErrDayAlreadyClosed
	}
	open := r.OpenBreak()
	if open == nil {
		return fmt.Errorf("no open break: %w", ErrInvalidTransition)
	}
	open.End = &now
	r.UpdatedAt = now
	return nil
}

func (r *WorkDayRecord) clockOut(now time.Time) error {
	if r.Closed() {
		return ErrDayAlreadyClosed
	}
	if r.ClockInAt == nil {
		return fmt.Errorf("not clocked in: %w", ErrInvalidTransition)
	}
	if r.OpenBreak() != nil {
		return fmt.Errorf("must end break before clocking out: %w", ErrInvalidTransition)
	}
	r.ClockOutAt = &now
	r.UpdatedAt = now
	return nil
}

// BreakMinutes sums all break durations. Open breaks count their elapsed
// time up to now.
func (r *WorkDayRecord) BreakMinutes(now time.Time) int {
	if r == nil {
		return 0
	}
	total := 0
	for _, b := range r.Breaks {
		total += b.Minutes(now)
	}
	return total
}

// WorkedMinutes derives the net worked time: clock-in to clock-out (or now
// while the day is open) minus all break time.
func (r *WorkDayRecord) WorkedMinutes(now time.Time) int {
	if r == nil || r.ClockInAt == nil {
		return 0
	}
	end := now
	if r.ClockOutAt != nil {
		end = *r.ClockOutAt
	}
	gross := int(end.Sub(*r.ClockInAt) / time.Minute)
	worked := gross - r.BreakMinutes(end)
	if worked < 0 {
		return 0
	}
	return worked
}

// Clone returns a deep copy of the record. Event snapshots and engine
// retries must never alias the break slice of a stored record.
func (r *WorkDayRecord) Clone() *WorkDayRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Breaks = make([]BreakInterval, len(r.Breaks))
	copy(cp.Breaks, r.Breaks)
	for i := range cp.Breaks {
		if r.Breaks[i].End != nil {
			end := *r.Breaks[i].End
			cp.Breaks[i].End = &end
		}
	}
	if r.ClockInAt != nil {
		in := *r.ClockInAt
		cp.ClockInAt = &in
	}
	if r.ClockOutAt != nil {
		out := *r.ClockOutAt
		cp.ClockOutAt = &out
	}
	return &cp
}

// SyncEvent is an ephemeral notification of an accepted transition. It is
// never persisted; a missed event is recovered by re-fetching the record.
type SyncEvent struct {
	Type       string
	EmployeeID string
	Record     *WorkDayRecord
	ServerTime time.Time
}
