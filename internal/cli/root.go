// Package cli implements the punchclock command-line interface.
package cli

import (
	"fmt"

	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Attendance    service.AttendanceService
	Notifications service.NotificationService

	// EmployeeID is the default identity for attendance commands,
	// overridable with --employee.
	EmployeeID string

	// IsInteractive reports whether stdin is a terminal; confirmation
	// prompts are skipped otherwise.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) requireEmployee() error {
	if a.EmployeeID == "" {
		return fmt.Errorf("no employee id: set --employee or PUNCHCLOCK_EMPLOYEE")
	}
	return nil
}

// NewRootCmd creates the top-level "punchclock" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "punchclock",
		Short:         "Workplace attendance tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.EmployeeID, "employee", app.EmployeeID, "Employee ID to act as")

	root.AddCommand(
		newClockInCmd(app),
		newClockOutCmd(app),
		newBreakCmd(app),
		newStatusCmd(app),
		newHistoryCmd(app),
		newStatsCmd(app),
		newNotificationsCmd(app),
		newServeCmd(),
		newWatchCmd(app),
	)

	return root
}
