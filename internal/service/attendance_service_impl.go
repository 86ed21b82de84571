package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/engine"
	"github.com/alexanderramin/punchclock/internal/repository"
)

const defaultHistoryLimit = 14

type attendanceService struct {
	engine   *engine.Engine
	records  repository.RecordRepo
	observer UseCaseObserver
	now      func() time.Time
}

// AttendanceOption configures the attendance service.
type AttendanceOption func(*attendanceService)

// WithObserver attaches a use-case observer.
func WithObserver(o UseCaseObserver) AttendanceOption {
	return func(s *attendanceService) { s.observer = o }
}

// WithAttendanceClock overrides the read-side clock, for tests.
func WithAttendanceClock(now func() time.Time) AttendanceOption {
	return func(s *attendanceService) { s.now = now }
}

// NewAttendanceService wires the write path through the engine and the read
// path straight to the record store.
func NewAttendanceService(eng *engine.Engine, records repository.RecordRepo, opts ...AttendanceOption) AttendanceService {
	s := &attendanceService{
		engine:   eng,
		records:  records,
		observer: NoopUseCaseObserver{},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *attendanceService) SubmitTransition(ctx context.Context, employeeID string, event domain.TransitionEvent) (*app.StatusView, error) {
	start := time.Now()
	_, rec, err := s.engine.Submit(ctx, employeeID, event)
	s.observe(ctx, "attendance.submit", start, err, map[string]any{
		"employee_id": employeeID,
		"event":       string(event),
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &app.StatusView{
		Day:         buildDayView(rec, now),
		GeneratedAt: now,
	}, nil
}

func (s *attendanceService) GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusView, error) {
	now := s.resolveNow(req.Now)

	rec, err := s.currentDay(ctx, req.EmployeeID, now)
	if err != nil {
		return nil, err
	}

	view := &app.StatusView{GeneratedAt: now}
	if rec == nil {
		view.Day = emptyDayView(req.EmployeeID, now)
	} else {
		view.Day = buildDayView(rec, now)
	}
	return view, nil
}

func (s *attendanceService) GetHistory(ctx context.Context, req app.HistoryRequest) (*app.HistoryResponse, error) {
	now := s.resolveNow(req.Now)

	var (
		records []*domain.WorkDayRecord
		err     error
	)
	if req.Month != "" {
		if _, parseErr := time.Parse(MonthLayout, req.Month); parseErr != nil {
			return nil, fmt.Errorf("invalid month %q, expected YYYY-MM", req.Month)
		}
		records, err = s.records.ListMonth(ctx, req.EmployeeID, req.Month)
	} else {
		limit := req.Limit
		if limit <= 0 {
			limit = defaultHistoryLimit
		}
		records, err = s.records.ListRecent(ctx, req.EmployeeID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	resp := &app.HistoryResponse{}
	for _, rec := range records {
		view := buildDayView(rec, now)
		resp.Days = append(resp.Days, view)
		resp.TotalWorkedMinutes += view.WorkedMinutes
	}
	return resp, nil
}

func (s *attendanceService) GetStats(ctx context.Context, req app.StatusRequest) (*app.StatsView, error) {
	start := time.Now()
	now := s.resolveNow(req.Now)
	month := now.Format(MonthLayout)

	stats, err := s.buildStats(ctx, req.EmployeeID, month, now)
	s.observe(ctx, "attendance.stats", start, err, map[string]any{
		"employee_id": req.EmployeeID,
		"month":       month,
	})
	return stats, err
}

func (s *attendanceService) buildStats(ctx context.Context, employeeID, month string, now time.Time) (*app.StatsView, error) {
	workDays, err := s.records.CountActiveDays(ctx, employeeID, month)
	if err != nil {
		return nil, fmt.Errorf("counting work days: %w", err)
	}

	monthRecords, err := s.records.ListMonth(ctx, employeeID, month)
	if err != nil {
		return nil, fmt.Errorf("loading month records: %w", err)
	}
	var monthMinutes int
	for _, rec := range monthRecords {
		monthMinutes += rec.WorkedMinutes(now)
	}

	today, err := s.currentDay(ctx, employeeID, now)
	if err != nil {
		return nil, err
	}
	var todayMinutes int
	if today != nil {
		todayMinutes = today.WorkedMinutes(now)
	}

	return &app.StatsView{
		EmployeeID:         employeeID,
		Month:              month,
		WorkDaysThisMonth:  workDays,
		WorkedTodayMinutes: todayMinutes,
		WorkedMonthMinutes: monthMinutes,
		GeneratedAt:        now,
	}, nil
}

// currentDay resolves the record status reads against: today's record when
// one exists, otherwise a still-open earlier day, otherwise nil.
func (s *attendanceService) currentDay(ctx context.Context, employeeID string, now time.Time) (*domain.WorkDayRecord, error) {
	rec, err := s.records.Get(ctx, employeeID, domain.DateKey(now))
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, fmt.Errorf("reading today's record: %w", err)
	}

	recent, err := s.records.ListRecent(ctx, employeeID, 1)
	if err != nil {
		return nil, fmt.Errorf("reading recent records: %w", err)
	}
	if len(recent) > 0 && recent[0].ClockInAt != nil && !recent[0].Closed() {
		return recent[0], nil
	}
	return nil, nil
}

func (s *attendanceService) resolveNow(override *time.Time) time.Time {
	if override != nil {
		return override.UTC()
	}
	return s.now()
}

func (s *attendanceService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: start,
	})
}
