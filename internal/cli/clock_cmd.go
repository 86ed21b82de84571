package cli

import (
	"fmt"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newClockInCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "in",
		Short: "Clock in and start the working day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitAndShow(cmd, app, domain.EventClockIn)
		},
	}
}

func newClockOutCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Clock out and close the working day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireEmployee(); err != nil {
				return err
			}

			// Clocking out is terminal for the day, so ask first on a
			// terminal unless --yes was given.
			if !yes && app.interactive() {
				confirmed, err := confirmClockOut()
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleDim.Render("Aborted."))
					return nil
				}
			}

			return submitAndShow(cmd, app, domain.EventClockOut)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newBreakCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Manage breaks within the working day",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start a break",
			RunE: func(cmd *cobra.Command, args []string) error {
				return submitAndShow(cmd, app, domain.EventBreakStart)
			},
		},
		&cobra.Command{
			Use:   "end",
			Short: "End the current break",
			RunE: func(cmd *cobra.Command, args []string) error {
				return submitAndShow(cmd, app, domain.EventBreakEnd)
			},
		},
	)

	return cmd
}

func submitAndShow(cmd *cobra.Command, app *App, event domain.TransitionEvent) error {
	if err := app.requireEmployee(); err != nil {
		return err
	}

	view, err := app.Attendance.SubmitTransition(cmd.Context(), app.EmployeeID, event)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(view))
	return nil
}

func confirmClockOut() (bool, error) {
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clock out now?").
				Description("The day closes permanently; no further transitions are accepted.").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return confirmed, nil
}
