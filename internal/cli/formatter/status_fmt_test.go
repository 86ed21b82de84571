package formatter

import (
	"testing"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestFormatStatus_WorkingDayWithBreak(t *testing.T) {
	view := &app.StatusView{
		Day: app.DayView{
			EmployeeID: "emp-1",
			Date:       "2025-06-16",
			Status:     domain.StatusWorking,
			ClockInAt:  strPtr("2025-06-16T09:00:00Z"),
			Breaks: []app.BreakView{
				{Start: "2025-06-16T12:00:00Z", End: strPtr("2025-06-16T12:30:00Z"), Minutes: 30},
			},
			WorkedMinutes: 210,
			BreakMinutes:  30,
		},
	}

	out := FormatStatus(view)
	assert.Contains(t, out, "WORKING")
	assert.Contains(t, out, "2025-06-16")
	assert.Contains(t, out, "3h 30m")
	assert.Contains(t, out, "30m")
	assert.Contains(t, out, "EMP-1")
}

func TestFormatStatus_OffDay(t *testing.T) {
	view := &app.StatusView{
		Day: app.DayView{
			EmployeeID: "emp-1",
			Date:       "2025-06-16",
			Status:     domain.StatusOff,
		},
	}

	out := FormatStatus(view)
	assert.Contains(t, out, "OFF")
	assert.Contains(t, out, "—")
}

func TestFormatHistory_TotalsAndEmpty(t *testing.T) {
	assert.Contains(t, FormatHistory(&app.HistoryResponse{}), "No attendance records")

	resp := &app.HistoryResponse{
		Days: []app.DayView{
			{
				Date:          "2025-06-16",
				Status:        domain.StatusOff,
				ClockInAt:     strPtr("2025-06-16T09:00:00Z"),
				ClockOutAt:    strPtr("2025-06-16T17:00:00Z"),
				WorkedMinutes: 480,
				Closed:        true,
			},
		},
		TotalWorkedMinutes: 480,
	}
	out := FormatHistory(resp)
	assert.Contains(t, out, "2025-06-16")
	assert.Contains(t, out, "8h")
	assert.Contains(t, out, "1 days")
}

func TestFormatStats(t *testing.T) {
	out := FormatStats(&app.StatsView{
		Month:              "2025-06",
		WorkDaysThisMonth:  12,
		WorkedTodayMinutes: 300,
		WorkedMonthMinutes: 5400,
	})
	assert.Contains(t, out, "2025-06")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "5h")
	assert.Contains(t, out, "90h")
}
