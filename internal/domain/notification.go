package domain

import "time"

// Notification is a stored message for an employee, pushed over the
// realtime channel when the employee is connected and readable later
// either way.
type Notification struct {
	ID         string
	EmployeeID string
	Title      string
	Message    string
	Read       bool
	CreatedAt  time.Time
}
