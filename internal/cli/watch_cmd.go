package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/alexanderramin/punchclock/internal/realtime"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var url string
	var origin string
	var admin bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live attendance events from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireEmployee(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			client := realtime.NewClient(realtime.ClientConfig{
				URL:        url,
				Origin:     origin,
				EmployeeID: app.EmployeeID,
				Admin:      admin,
				OnMessage: func(env realtime.Envelope) {
					printEnvelope(out, env)
				},
				OnStateChange: func(s realtime.ConnState) {
					fmt.Fprintln(out, formatter.StyleDim.Render(fmt.Sprintf("[%s]", s)))
				},
			})

			go func() {
				<-cmd.Context().Done()
				client.Stop()
			}()

			return client.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&url, "url", "ws://localhost:8080/ws", "WebSocket endpoint")
	cmd.Flags().StringVar(&origin, "origin", "http://localhost:8080", "Handshake origin")
	cmd.Flags().BoolVar(&admin, "admin", false, "Watch every employee's events")
	return cmd
}

func printEnvelope(out io.Writer, env realtime.Envelope) {
	switch env.Type {
	case realtime.TypeAttendance:
		var payload realtime.AttendancePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		fmt.Fprintf(out, "%s %s %s  worked %s\n",
			formatter.StyleDim.Render(time.Now().Local().Format("15:04:05")),
			formatter.StyleBold.Render(payload.EmployeeID),
			formatter.StatusIndicator(payload.Status),
			formatter.FormatMinutes(payload.WorkedMinutes),
		)
	case realtime.TypeNotification:
		var payload realtime.NotificationPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return
		}
		fmt.Fprintf(out, "%s %s %s: %s\n",
			formatter.StyleDim.Render(time.Now().Local().Format("15:04:05")),
			formatter.StyleBlue.Render("notification"),
			formatter.StyleBold.Render(payload.Title),
			payload.Message,
		)
	}
}
