package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// recordColumns is the canonical SELECT column list for work_day_records.
const recordColumns = `employee_id, date, clock_in_at, clock_out_at, version, created_at, updated_at`

// SQLiteRecordRepo implements RecordRepo using a SQLite database.
//
// Put touches both work_day_records and break_intervals; callers that need
// the read-validate-write cycle to be atomic wrap the repo in a
// db.UnitOfWork and construct a tx-scoped instance from the DBTX.
type SQLiteRecordRepo struct {
	db db.DBTX
}

// NewSQLiteRecordRepo creates a new SQLiteRecordRepo.
func NewSQLiteRecordRepo(conn db.DBTX) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: conn}
}

func (r *SQLiteRecordRepo) Get(ctx context.Context, employeeID, date string) (*domain.WorkDayRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM work_day_records WHERE employee_id = ? AND date = ?`
	row := r.db.QueryRowContext(ctx, query, employeeID, date)

	rec, err := r.scanRecord(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadBreaks(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRecordRepo) Put(ctx context.Context, rec *domain.WorkDayRecord, expectedVersion int) error {
	if expectedVersion == 0 {
		if err := r.insert(ctx, rec); err != nil {
			return err
		}
	} else {
		if err := r.update(ctx, rec, expectedVersion); err != nil {
			return err
		}
	}
	rec.Version = expectedVersion + 1
	return r.replaceBreaks(ctx, rec)
}

func (r *SQLiteRecordRepo) insert(ctx context.Context, rec *domain.WorkDayRecord) error {
	query := `INSERT INTO work_day_records (employee_id, date, clock_in_at, clock_out_at, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.EmployeeID,
		rec.Date,
		nullableTimeToString(rec.ClockInAt, time.RFC3339),
		nullableTimeToString(rec.ClockOutAt, time.RFC3339),
		rec.CreatedAt.Format(time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		// The (employee_id, date) primary key enforces one record per
		// day; a duplicate insert means another writer got there first.
		if isUniqueViolation(err) {
			return fmt.Errorf("work day record for %s on %s already exists: %w", rec.EmployeeID, rec.Date, ErrVersionConflict)
		}
		return fmt.Errorf("inserting work day record: %w", err)
	}
	return nil
}

func (r *SQLiteRecordRepo) update(ctx context.Context, rec *domain.WorkDayRecord, expectedVersion int) error {
	query := `UPDATE work_day_records
		SET clock_in_at = ?, clock_out_at = ?, version = version + 1, updated_at = ?
		WHERE employee_id = ? AND date = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(rec.ClockInAt, time.RFC3339),
		nullableTimeToString(rec.ClockOutAt, time.RFC3339),
		rec.UpdatedAt.Format(time.RFC3339),
		rec.EmployeeID,
		rec.Date,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating work day record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("work day record for %s on %s at version %d: %w", rec.EmployeeID, rec.Date, expectedVersion, ErrVersionConflict)
	}
	return nil
}

func (r *SQLiteRecordRepo) replaceBreaks(ctx context.Context, rec *domain.WorkDayRecord) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM break_intervals WHERE employee_id = ? AND date = ?`,
		rec.EmployeeID, rec.Date,
	); err != nil {
		return fmt.Errorf("clearing break intervals: %w", err)
	}
	for i, b := range rec.Breaks {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO break_intervals (employee_id, date, position, start_at, end_at) VALUES (?, ?, ?, ?, ?)`,
			rec.EmployeeID, rec.Date, i,
			b.Start.Format(time.RFC3339),
			nullableTimeToString(b.End, time.RFC3339),
		); err != nil {
			return fmt.Errorf("inserting break interval %d: %w", i, err)
		}
	}
	return nil
}

func (r *SQLiteRecordRepo) ListRecent(ctx context.Context, employeeID string, limit int) ([]*domain.WorkDayRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM work_day_records
		WHERE employee_id = ? ORDER BY date DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent records: %w", err)
	}
	defer rows.Close()
	return r.scanRecordsWithBreaks(ctx, rows)
}

func (r *SQLiteRecordRepo) ListMonth(ctx context.Context, employeeID, yearMonth string) ([]*domain.WorkDayRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM work_day_records
		WHERE employee_id = ? AND date LIKE ? || '-%' ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, employeeID, yearMonth)
	if err != nil {
		return nil, fmt.Errorf("listing month records: %w", err)
	}
	defer rows.Close()
	return r.scanRecordsWithBreaks(ctx, rows)
}

func (r *SQLiteRecordRepo) CountActiveDays(ctx context.Context, employeeID, yearMonth string) (int, error) {
	query := `SELECT COUNT(*) FROM work_day_records
		WHERE employee_id = ? AND date LIKE ? || '-%' AND clock_in_at IS NOT NULL`
	var count int
	if err := r.db.QueryRowContext(ctx, query, employeeID, yearMonth).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting active days: %w", err)
	}
	return count, nil
}

// scanRecord scans a single record from a *sql.Row.
func (r *SQLiteRecordRepo) scanRecord(row *sql.Row) (*domain.WorkDayRecord, error) {
	var rec domain.WorkDayRecord
	var clockIn, clockOut sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&rec.EmployeeID, &rec.Date, &clockIn, &clockOut, &rec.Version, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("work day record: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning work day record: %w", err)
	}
	return r.populateRecord(&rec, clockIn, clockOut, createdAtStr, updatedAtStr)
}

// scanRecordsWithBreaks scans multiple records and attaches their breaks.
func (r *SQLiteRecordRepo) scanRecordsWithBreaks(ctx context.Context, rows *sql.Rows) ([]*domain.WorkDayRecord, error) {
	var records []*domain.WorkDayRecord
	for rows.Next() {
		var rec domain.WorkDayRecord
		var clockIn, clockOut sql.NullString
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&rec.EmployeeID, &rec.Date, &clockIn, &clockOut, &rec.Version, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning record row: %w", err)
		}
		record, parseErr := r.populateRecord(&rec, clockIn, clockOut, createdAtStr, updatedAtStr)
		if parseErr != nil {
			return nil, parseErr
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	for _, rec := range records {
		if err := r.loadBreaks(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *SQLiteRecordRepo) loadBreaks(ctx context.Context, rec *domain.WorkDayRecord) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT start_at, end_at FROM break_intervals WHERE employee_id = ? AND date = ? ORDER BY position`,
		rec.EmployeeID, rec.Date,
	)
	if err != nil {
		return fmt.Errorf("loading break intervals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var startStr string
		var endStr sql.NullString
		if err := rows.Scan(&startStr, &endStr); err != nil {
			return fmt.Errorf("scanning break interval: %w", err)
		}
		start, parseErr := time.Parse(time.RFC3339, startStr)
		if parseErr != nil {
			return fmt.Errorf("parsing break start: %w", parseErr)
		}
		rec.Breaks = append(rec.Breaks, domain.BreakInterval{
			Start: start,
			End:   parseNullableTime(endStr, time.RFC3339),
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating break intervals: %w", err)
	}
	return nil
}

// populateRecord fills in parsed fields after scanning raw strings.
func (r *SQLiteRecordRepo) populateRecord(rec *domain.WorkDayRecord, clockIn, clockOut sql.NullString, createdAtStr, updatedAtStr string) (*domain.WorkDayRecord, error) {
	rec.ClockInAt = parseNullableTime(clockIn, time.RFC3339)
	rec.ClockOutAt = parseNullableTime(clockOut, time.RFC3339)

	var parseErr error
	rec.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	rec.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return rec, nil
}
