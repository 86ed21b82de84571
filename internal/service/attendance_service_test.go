package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/engine"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitTransition_ClockIn(t *testing.T) {
	svc, _, clock := setupAttendance(t)
	ctx := context.Background()

	view, err := svc.SubmitTransition(ctx, "emp-1", domain.EventClockIn)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusWorking, view.Day.Status)
	assert.Equal(t, "2025-06-16", view.Day.Date)
	require.NotNil(t, view.Day.ClockInAt)
	assert.Equal(t, clock.Now().Format(time.RFC3339), *view.Day.ClockInAt)
	assert.Equal(t, 1, view.Day.Version)
	assert.False(t, view.Day.Closed)
}

func TestSubmitTransition_InvalidEventPropagates(t *testing.T) {
	svc, _, _ := setupAttendance(t)
	ctx := context.Background()

	_, err := svc.SubmitTransition(ctx, "emp-1", domain.EventClockOut)
	require.ErrorIs(t, err, engine.ErrInvalidTransition)
}

func TestGetStatus_NoRecordIsOff(t *testing.T) {
	svc, _, clock := setupAttendance(t)
	ctx := context.Background()

	view, err := svc.GetStatus(ctx, app.StatusRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusOff, view.Day.Status)
	assert.Equal(t, "2025-06-16", view.Day.Date)
	assert.Nil(t, view.Day.ClockInAt)
	assert.Zero(t, view.Day.WorkedMinutes)
	assert.Equal(t, clock.Now(), view.GeneratedAt)
}

func TestGetStatus_LiveMinutesWhileWorking(t *testing.T) {
	svc, _, clock := setupAttendance(t)
	ctx := context.Background()

	_, err := svc.SubmitTransition(ctx, "emp-1", domain.EventClockIn)
	require.NoError(t, err)

	clock.Advance(90 * time.Minute)

	view, err := svc.GetStatus(ctx, app.StatusRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWorking, view.Day.Status)
	assert.Equal(t, 90, view.Day.WorkedMinutes)

	// A break freezes worked time and accrues break time.
	_, err = svc.SubmitTransition(ctx, "emp-1", domain.EventBreakStart)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)

	view, err = svc.GetStatus(ctx, app.StatusRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBreak, view.Day.Status)
	assert.Equal(t, 90, view.Day.WorkedMinutes)
	assert.Equal(t, 30, view.Day.BreakMinutes)
	require.Len(t, view.Day.Breaks, 1)
	assert.Nil(t, view.Day.Breaks[0].End)
}

func TestGetStatus_OpenDayCarriesAcrossMidnight(t *testing.T) {
	svc, _, clock := setupAttendance(t)
	ctx := context.Background()

	_, err := svc.SubmitTransition(ctx, "emp-1", domain.EventClockIn)
	require.NoError(t, err)

	// 09:00 plus 20 hours lands on the next calendar day.
	clock.Advance(20 * time.Hour)

	view, err := svc.GetStatus(ctx, app.StatusRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-16", view.Day.Date)
	assert.Equal(t, domain.StatusWorking, view.Day.Status)
	assert.Equal(t, 20*60, view.Day.WorkedMinutes)
}

func TestGetHistory_Recent(t *testing.T) {
	svc, records, _ := setupAttendance(t)
	ctx := context.Background()

	for _, date := range []string{"2025-06-10", "2025-06-11", "2025-06-12"} {
		rec := testutil.NewTestRecord("emp-1",
			testutil.WithDate(date),
			testutil.WithClockIn(testutil.At(9, 0)),
			testutil.WithClockOut(testutil.At(17, 0)),
		)
		require.NoError(t, records.Put(ctx, rec, 0))
	}

	resp, err := svc.GetHistory(ctx, app.HistoryRequest{EmployeeID: "emp-1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-06-12", resp.Days[0].Date)
	assert.Equal(t, "2025-06-11", resp.Days[1].Date)
	assert.Equal(t, 960, resp.TotalWorkedMinutes)
}

func TestGetHistory_MonthFilter(t *testing.T) {
	svc, records, _ := setupAttendance(t)
	ctx := context.Background()

	for _, date := range []string{"2025-05-30", "2025-06-02", "2025-06-03"} {
		rec := testutil.NewTestRecord("emp-1",
			testutil.WithDate(date),
			testutil.WithClockIn(testutil.At(9, 0)),
			testutil.WithClockOut(testutil.At(12, 0)),
		)
		require.NoError(t, records.Put(ctx, rec, 0))
	}

	resp, err := svc.GetHistory(ctx, app.HistoryRequest{EmployeeID: "emp-1", Month: "2025-06"})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-06-02", resp.Days[0].Date)
	assert.Equal(t, "2025-06-03", resp.Days[1].Date)
	assert.Equal(t, 360, resp.TotalWorkedMinutes)
}

func TestGetHistory_InvalidMonth(t *testing.T) {
	svc, _, _ := setupAttendance(t)

	_, err := svc.GetHistory(context.Background(), app.HistoryRequest{EmployeeID: "emp-1", Month: "June"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid month")
}

func TestGetStats(t *testing.T) {
	svc, records, clock := setupAttendance(t)
	ctx := context.Background()

	for _, date := range []string{"2025-06-10", "2025-06-11"} {
		rec := testutil.NewTestRecord("emp-1",
			testutil.WithDate(date),
			testutil.WithClockIn(testutil.At(9, 0)),
			testutil.WithClockOut(testutil.At(17, 0)),
		)
		require.NoError(t, records.Put(ctx, rec, 0))
	}

	_, err := svc.SubmitTransition(ctx, "emp-1", domain.EventClockIn)
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)

	stats, err := svc.GetStats(ctx, app.StatusRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, "2025-06", stats.Month)
	assert.Equal(t, 3, stats.WorkDaysThisMonth)
	assert.Equal(t, 120, stats.WorkedTodayMinutes)
	assert.Equal(t, 480+480+120, stats.WorkedMonthMinutes)
}

func TestGetStats_IsolatedPerEmployee(t *testing.T) {
	svc, records, _ := setupAttendance(t)
	ctx := context.Background()

	other := testutil.NewTestRecord("emp-2",
		testutil.WithClockIn(testutil.At(9, 0)),
		testutil.WithClockOut(testutil.At(10, 0)),
	)
	require.NoError(t, records.Put(ctx, other, 0))

	stats, err := svc.GetStats(ctx, app.StatusRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Zero(t, stats.WorkDaysThisMonth)
	assert.Zero(t, stats.WorkedMonthMinutes)
}

type captureObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (c *captureObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func TestObserver_SeesSubmitOutcomes(t *testing.T) {
	database := testutil.NewTestDB(t)
	clock := newTestClock(testutil.BaseDay)
	eng := engine.New(testutil.NewTestUoW(database), engine.NoopSink{}, engine.WithClock(clock.Now))
	obs := &captureObserver{}
	svc := NewAttendanceService(eng, nil, WithAttendanceClock(clock.Now), WithObserver(obs))
	ctx := context.Background()

	_, err := svc.SubmitTransition(ctx, "emp-1", domain.EventClockIn)
	require.NoError(t, err)
	_, err = svc.SubmitTransition(ctx, "emp-1", domain.EventClockIn)
	require.Error(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "attendance.submit", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "clock_in", obs.events[0].Fields["event"])
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, engine.ErrInvalidTransition)
}
