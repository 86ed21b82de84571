package cli

import (
	"fmt"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newNotificationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "List and manage notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listNotifications(cmd, app)
		},
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listNotifications(cmd, app)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of notifications")

	readCmd := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Notifications.MarkRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Marked as read.")
			return nil
		},
	}

	var title, message string
	sendCmd := &cobra.Command{
		Use:   "send <employee-id>",
		Short: "Send a notification to an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return fmt.Errorf("a --title is required")
			}
			if err := app.Notifications.Notify(cmd.Context(), args[0], title, message); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notification sent.")
			return nil
		},
	}
	sendCmd.Flags().StringVar(&title, "title", "", "Notification title")
	sendCmd.Flags().StringVar(&message, "message", "", "Notification body")

	cmd.AddCommand(listCmd, readCmd, sendCmd)
	return cmd
}

func listNotifications(cmd *cobra.Command, app *App) error {
	if err := app.requireEmployee(); err != nil {
		return err
	}

	views, err := app.Notifications.List(cmd.Context(), app.EmployeeID, 0)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatNotifications(views))
	return nil
}
