package service

import (
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// MonthLayout is the "YYYY-MM" key used by history and stats filters.
const MonthLayout = "2006-01"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// buildDayView flattens a record into its display shape at the given time.
// Derived status and minutes come from the projector so every surface shows
// the same figures.
func buildDayView(r *domain.WorkDayRecord, now time.Time) app.DayView {
	p := domain.Project(r, now)
	view := app.DayView{
		EmployeeID:    p.EmployeeID,
		Date:          p.Date,
		Status:        p.Status,
		ClockInAt:     formatTimePtr(p.ClockInAt),
		ClockOutAt:    formatTimePtr(p.ClockOutAt),
		WorkedMinutes: p.WorkedMinutes,
		BreakMinutes:  p.BreakMinutes,
		Closed:        r.Closed(),
		Version:       r.Version,
	}
	for _, b := range r.Breaks {
		view.Breaks = append(view.Breaks, app.BreakView{
			Start:   b.Start.UTC().Format(time.RFC3339),
			End:     formatTimePtr(b.End),
			Minutes: b.Minutes(now),
		})
	}
	return view
}

// emptyDayView is the off-state view shown when no record exists.
func emptyDayView(employeeID string, now time.Time) app.DayView {
	return app.DayView{
		EmployeeID: employeeID,
		Date:       domain.DateKey(now),
		Status:     domain.StatusOff,
	}
}
