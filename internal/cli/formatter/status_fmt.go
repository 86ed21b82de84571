package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/punchclock/internal/app"
)

// FormatStatus renders the current-day status view.
func FormatStatus(view *app.StatusView) string {
	day := view.Day

	var b strings.Builder
	b.WriteString(StatusIndicator(day.Status))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("Date"), StyleFg.Render(day.Date)))
	b.WriteString(fmt.Sprintf("%s    %s\n", StyleDim.Render("In"), FormatClockPtr(day.ClockInAt)))
	b.WriteString(fmt.Sprintf("%s   %s\n", StyleDim.Render("Out"), FormatClockPtr(day.ClockOutAt)))

	worked := StyleBold.Render(FormatMinutes(day.WorkedMinutes))
	b.WriteString(fmt.Sprintf("\n%s %s", StyleDim.Render("Worked"), worked))
	if day.BreakMinutes > 0 || len(day.Breaks) > 0 {
		b.WriteString(fmt.Sprintf("   %s %s", StyleDim.Render("Breaks"), FormatMinutes(day.BreakMinutes)))
	}
	b.WriteString("\n")

	if len(day.Breaks) > 0 {
		b.WriteString("\n")
		for _, br := range day.Breaks {
			end := "ongoing"
			if br.End != nil {
				end = FormatClock(*br.End)
			}
			b.WriteString(fmt.Sprintf("  %s %s to %s (%s)\n",
				StyleDim.Render("break"), FormatClock(br.Start), end, FormatMinutes(br.Minutes)))
		}
	}

	return RenderBox(day.EmployeeID, b.String()) + "\n"
}
