// Package server hosts the HTTP and WebSocket surface over the attendance
// services. It is transport only: every state change goes through the
// service layer.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/engine"
	"github.com/alexanderramin/punchclock/internal/realtime"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/service"
)

// Server hosts the attendance HTTP/WebSocket process.
type Server struct {
	httpAddr        string
	shutdownTimeout time.Duration
	httpServer      *http.Server
}

// Deps are the wired services the transport exposes.
type Deps struct {
	Attendance    service.AttendanceService
	Notifications service.NotificationService
	Hub           *realtime.Hub
}

// NewServer builds the HTTP server around the given dependencies.
func NewServer(cfg Config, deps Deps) *Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps)

	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 10 * time.Second
	}

	return &Server{
		httpAddr:        cfg.HTTPAddr,
		shutdownTimeout: shutdown,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
	}
}

// Run opens the store, wires the full stack, and serves until the context
// ends. Operators can treat this as the lifecycle boundary for the service.
func Run(ctx context.Context, cfg Config) error {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	records := repository.NewSQLiteRecordRepo(database)
	notifications := repository.NewSQLiteNotificationRepo(database)
	hub := realtime.NewHub(notifications)
	eng := engine.New(db.NewSQLiteUnitOfWork(database), hub)

	deps := Deps{
		Attendance:    service.NewAttendanceService(eng, records),
		Notifications: service.NewNotificationService(notifications, hub),
		Hub:           hub,
	}

	if err := NewServer(cfg, deps).ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve attendance: %w", err)
	}
	return nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	log.Printf("attendance server listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
