package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// FormatHistory renders past working days as a table with a worked-time total.
func FormatHistory(resp *app.HistoryResponse) string {
	if len(resp.Days) == 0 {
		return StyleDim.Render("No attendance records.") + "\n"
	}

	rows := make([][]string, 0, len(resp.Days))
	for _, day := range resp.Days {
		state := StyleDim.Render("closed")
		if !day.Closed && day.Status != domain.StatusOff {
			state = StatusStyle(day.Status).Render("open")
		}
		rows = append(rows, []string{
			day.Date,
			FormatClockPtr(day.ClockInAt),
			FormatClockPtr(day.ClockOutAt),
			FormatMinutes(day.BreakMinutes),
			StyleBold.Render(FormatMinutes(day.WorkedMinutes)),
			state,
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(
		[]string{"Date", "In", "Out", "Breaks", "Worked", ""},
		rows,
	))
	b.WriteString(fmt.Sprintf("\n%s %s over %d days\n",
		StyleDim.Render("Total"),
		StyleBold.Render(FormatMinutes(resp.TotalWorkedMinutes)),
		len(resp.Days),
	))
	return b.String()
}
