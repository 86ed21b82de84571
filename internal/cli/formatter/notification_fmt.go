package formatter

import (
	"strings"

	"github.com/alexanderramin/punchclock/internal/app"
)

// FormatNotifications lists stored notifications, unread ones highlighted.
func FormatNotifications(views []app.NotificationView) string {
	if len(views) == 0 {
		return StyleDim.Render("No notifications.") + "\n"
	}

	rows := make([][]string, 0, len(views))
	for _, n := range views {
		marker := StyleBlue.Render("●")
		title := StyleBold.Render(n.Title)
		if n.Read {
			marker = StyleDim.Render("○")
			title = StyleDim.Render(n.Title)
		}
		rows = append(rows, []string{
			marker,
			n.CreatedAt.Local().Format("Jan 02 15:04"),
			title,
			n.Message,
			StyleDim.Render(n.ID),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"", "When", "Title", "Message", "ID"}, rows))
	return b.String()
}
