package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (id, employee_id, title, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.EmployeeID,
		n.Title,
		n.Message,
		boolToInt(n.Read),
		n.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]*domain.Notification, error) {
	query := `SELECT id, employee_id, title, message, is_read, created_at
		FROM notifications WHERE employee_id = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var isRead int
		var createdAtStr string
		if err := rows.Scan(&n.ID, &n.EmployeeID, &n.Title, &n.Message, &isRead, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = intToBool(isRead)
		n.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return notifications, nil
}

func (r *SQLiteNotificationRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}

var (
	_ NotificationRepo = (*SQLiteNotificationRepo)(nil)
	_ RecordRepo       = (*SQLiteRecordRepo)(nil)
)
