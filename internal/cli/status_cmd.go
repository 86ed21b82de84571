package cli

import (
	"fmt"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newStatusCmd(cliApp *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's attendance status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliApp.requireEmployee(); err != nil {
				return err
			}

			if watch {
				model := newStatusWatchModel(cliApp)
				_, err := tea.NewProgram(model).Run()
				return err
			}

			view, err := cliApp.Attendance.GetStatus(cmd.Context(), app.StatusRequest{EmployeeID: cliApp.EmployeeID})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(view))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Live view that refreshes every second")
	return cmd
}

func newHistoryCmd(cliApp *App) *cobra.Command {
	var month string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past working days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliApp.requireEmployee(); err != nil {
				return err
			}

			resp, err := cliApp.Attendance.GetHistory(cmd.Context(), app.HistoryRequest{
				EmployeeID: cliApp.EmployeeID,
				Month:      month,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Filter to a month (YYYY-MM)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of recent days to show")
	return cmd
}

func newStatsCmd(cliApp *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show this month's attendance summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliApp.requireEmployee(); err != nil {
				return err
			}

			stats, err := cliApp.Attendance.GetStats(cmd.Context(), app.StatusRequest{EmployeeID: cliApp.EmployeeID})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStats(stats))
			return nil
		},
	}
}
