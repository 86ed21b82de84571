package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/repository"
)

// NotificationPusher delivers a notification to live connections and stores
// it. Satisfied by the realtime hub.
type NotificationPusher interface {
	PushNotification(ctx context.Context, employeeID, title, message string) error
}

type notificationService struct {
	notifications repository.NotificationRepo
	pusher        NotificationPusher
	now           func() time.Time
}

// NewNotificationService creates a notification service. A nil pusher means
// store-only delivery; recipients see the notification on next fetch.
func NewNotificationService(notifications repository.NotificationRepo, pusher NotificationPusher) NotificationService {
	return &notificationService{
		notifications: notifications,
		pusher:        pusher,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *notificationService) Notify(ctx context.Context, employeeID, title, message string) error {
	if employeeID == "" {
		return fmt.Errorf("employee id is required")
	}
	if s.pusher != nil {
		return s.pusher.PushNotification(ctx, employeeID, title, message)
	}
	return s.notifications.Create(ctx, &domain.Notification{
		ID:         uuid.New().String(),
		EmployeeID: employeeID,
		Title:      title,
		Message:    message,
		CreatedAt:  s.now(),
	})
}

func (s *notificationService) List(ctx context.Context, employeeID string, limit int) ([]app.NotificationView, error) {
	if limit <= 0 {
		limit = 50
	}
	stored, err := s.notifications.ListByEmployee(ctx, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}
	views := make([]app.NotificationView, 0, len(stored))
	for _, n := range stored {
		views = append(views, app.NotificationView{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return views, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}
