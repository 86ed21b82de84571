package service

import (
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/punchclock/internal/engine"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/testutil"
)

// testClock is a mutable clock shared between the engine and the service.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{t: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func setupAttendance(t *testing.T) (AttendanceService, repository.RecordRepo, *testClock) {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := newTestClock(testutil.BaseDay)
	eng := engine.New(testutil.NewTestUoW(database), engine.NoopSink{}, engine.WithClock(clock.Now))
	records := repository.NewSQLiteRecordRepo(database)
	svc := NewAttendanceService(eng, records, WithAttendanceClock(clock.Now))
	return svc, records, clock
}
