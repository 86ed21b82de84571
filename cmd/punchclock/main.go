package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/alexanderramin/punchclock/internal/cli"
	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/engine"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.punchclock/punchclock.db
	dbPath := os.Getenv("PUNCHCLOCK_DB_PATH")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".punchclock", "punchclock.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	records := repository.NewSQLiteRecordRepo(database)
	notifications := repository.NewSQLiteNotificationRepo(database)
	eng := engine.New(db.NewSQLiteUnitOfWork(database), engine.NoopSink{})

	app := &cli.App{
		Attendance:    service.NewAttendanceService(eng, records, service.WithObserver(observer())),
		Notifications: service.NewNotificationService(notifications, nil),
		EmployeeID:    defaultEmployeeID(),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// defaultEmployeeID resolves the identity attendance commands act as: the
// PUNCHCLOCK_EMPLOYEE variable, falling back to the OS username.
func defaultEmployeeID() string {
	if id := os.Getenv("PUNCHCLOCK_EMPLOYEE"); id != "" {
		return id
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func observer() service.UseCaseObserver {
	if os.Getenv("PUNCHCLOCK_LOG_USE_CASES") == "" {
		return service.NoopUseCaseObserver{}
	}
	return service.NewLogUseCaseObserver(os.Stderr)
}
