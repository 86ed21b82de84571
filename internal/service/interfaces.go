package service

import (
	"context"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
)

type AttendanceService interface {
	// SubmitTransition applies one attendance event and returns the
	// resulting day view.
	SubmitTransition(ctx context.Context, employeeID string, event domain.TransitionEvent) (*app.StatusView, error)
	GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusView, error)
	GetHistory(ctx context.Context, req app.HistoryRequest) (*app.HistoryResponse, error)
	GetStats(ctx context.Context, req app.StatusRequest) (*app.StatsView, error)
}

type NotificationService interface {
	Notify(ctx context.Context, employeeID, title, message string) error
	List(ctx context.Context, employeeID string, limit int) ([]app.NotificationView, error)
	MarkRead(ctx context.Context, id string) error
}
