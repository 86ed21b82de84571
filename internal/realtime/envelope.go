// Package realtime delivers attendance sync events and lightweight
// bidirectional messages over a websocket. It is transport only: business
// state lives in the record store, and a client that misses an event
// reconciles by re-fetching the current record.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// Message types carried on the channel. Unknown types are ignored by both
// ends, never treated as errors.
const (
	TypeAuth         = "auth"
	TypeAttendance   = domain.SyncEventAttendance
	TypeNotification = "notification"
)

// Envelope is the wire frame: a type tag, an arbitrary payload, and the
// sender's timestamp in ISO-8601.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// NewEnvelope marshals the payload into an envelope stamped with now.
func NewEnvelope(typ string, data any, now time.Time) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling %s payload: %w", typ, err)
	}
	return Envelope{
		Type:      typ,
		Data:      raw,
		Timestamp: now.UTC().Format(time.RFC3339),
	}, nil
}

// AuthPayload is the first message a client must send after connecting.
// Authentication is established once per connection; later messages are
// trusted on the strength of it.
type AuthPayload struct {
	EmployeeID string `json:"employeeId"`
	Admin      bool   `json:"admin,omitempty"`
}

// BreakSnapshot mirrors a break interval on the wire.
type BreakSnapshot struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// RecordSnapshot is the record portion of an attendance update.
type RecordSnapshot struct {
	EmployeeID string          `json:"employeeId"`
	Date       string          `json:"date"`
	ClockInAt  *time.Time      `json:"clockInAt,omitempty"`
	ClockOutAt *time.Time      `json:"clockOutAt,omitempty"`
	Breaks     []BreakSnapshot `json:"breaks,omitempty"`
}

// AttendancePayload is the data of an attendance_update envelope: the
// record snapshot plus its projection at event time.
type AttendancePayload struct {
	EmployeeID    string               `json:"employeeId"`
	Status        domain.SessionStatus `json:"status"`
	Record        RecordSnapshot       `json:"record"`
	WorkedMinutes int                  `json:"workedMinutes"`
	BreakMinutes  int                  `json:"breakMinutes"`
}

// NotificationPayload is the data of a notification envelope.
type NotificationPayload struct {
	EmployeeID string `json:"employeeId"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

func snapshotRecord(r *domain.WorkDayRecord) RecordSnapshot {
	snap := RecordSnapshot{
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		ClockInAt:  r.ClockInAt,
		ClockOutAt: r.ClockOutAt,
	}
	for _, b := range r.Breaks {
		snap.Breaks = append(snap.Breaks, BreakSnapshot{Start: b.Start, End: b.End})
	}
	return snap
}
