package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/punchclock/internal/app"
)

// FormatStats renders the monthly summary.
func FormatStats(stats *app.StatsView) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s      %s\n", StyleDim.Render("Month"), StyleFg.Render(stats.Month)))
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render("Work days"), StyleBold.Render(fmt.Sprintf("%d", stats.WorkDaysThisMonth))))
	b.WriteString(fmt.Sprintf("%s      %s\n", StyleDim.Render("Today"), StyleBold.Render(FormatMinutes(stats.WorkedTodayMinutes))))
	b.WriteString(fmt.Sprintf("%s      %s\n", StyleDim.Render("Total"), StyleBold.Render(FormatMinutes(stats.WorkedMonthMinutes))))
	return RenderBox("This month", b.String()) + "\n"
}
