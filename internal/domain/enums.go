package domain

// SessionStatus is the derived display state of an employee's day.
// It is always recomputed from the record, never persisted.
type SessionStatus string

const (
	StatusOff     SessionStatus = "off"
	StatusWorking SessionStatus = "working"
	StatusBreak   SessionStatus = "break"
)

// TransitionEvent identifies a requested attendance transition.
type TransitionEvent string

const (
	EventClockIn    TransitionEvent = "clock_in"
	EventClockOut   TransitionEvent = "clock_out"
	EventBreakStart TransitionEvent = "break_start"
	EventBreakEnd   TransitionEvent = "break_end"
)

// ValidTransitionEvents is the canonical set of accepted event strings.
var ValidTransitionEvents = map[string]bool{
	"clock_in": true, "clock_out": true, "break_start": true, "break_end": true,
}

// SyncEventAttendance is the envelope type for attendance state changes.
const SyncEventAttendance = "attendance_update"
