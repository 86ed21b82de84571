package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotifications(t *testing.T) (NotificationService, *repository.SQLiteNotificationRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteNotificationRepo(database)
	return NewNotificationService(repo, nil), repo
}

func TestNotify_StoresWithoutPusher(t *testing.T) {
	svc, _ := setupNotifications(t)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "emp-1", "Reminder", "Submit your report"))

	views, err := svc.List(ctx, "emp-1", 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Reminder", views[0].Title)
	assert.Equal(t, "Submit your report", views[0].Message)
	assert.False(t, views[0].Read)
	assert.NotEmpty(t, views[0].ID)
}

func TestNotify_RequiresEmployee(t *testing.T) {
	svc, _ := setupNotifications(t)
	require.Error(t, svc.Notify(context.Background(), "", "Title", "Message"))
}

type capturePusher struct {
	calls []string
}

func (p *capturePusher) PushNotification(_ context.Context, employeeID, title, message string) error {
	p.calls = append(p.calls, employeeID+"/"+title)
	return nil
}

func TestNotify_DelegatesToPusher(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteNotificationRepo(database)
	pusher := &capturePusher{}
	svc := NewNotificationService(repo, pusher)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "emp-1", "Ping", "Live delivery"))
	require.Len(t, pusher.calls, 1)
	assert.Equal(t, "emp-1/Ping", pusher.calls[0])

	// Storage is the pusher's job when one is wired.
	views, err := svc.List(ctx, "emp-1", 10)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestMarkRead(t *testing.T) {
	svc, repo := setupNotifications(t)
	ctx := context.Background()

	n := testutil.NewTestNotification("emp-1", "Heads up", "Meeting moved")
	require.NoError(t, repo.Create(ctx, n))

	require.NoError(t, svc.MarkRead(ctx, n.ID))

	views, err := svc.List(ctx, "emp-1", 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Read)
}

func TestList_IsolatedPerEmployee(t *testing.T) {
	svc, repo := setupNotifications(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("emp-1", "A", "a")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestNotification("emp-2", "B", "b")))

	views, err := svc.List(ctx, "emp-1", 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "A", views[0].Title)
}
