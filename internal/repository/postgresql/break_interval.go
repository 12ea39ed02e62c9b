package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

const breakColumns = `id, attendance_id, break_start, break_end, created_at, updated_at`

func scanBreak(row pgx.Row) (attendance.BreakInterval, error) {
	var b attendance.BreakInterval
	err := row.Scan(&b.ID, &b.AttendanceID, &b.BreakStart, &b.BreakEnd, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *breakRepository) query(ctx context.Context, query string, args ...any) ([]attendance.BreakInterval, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list break intervals: %w", err)
	}
	defer rows.Close()

	breaks := make([]attendance.BreakInterval, 0)
	for rows.Next() {
		b, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break interval: %w", err)
		}
		breaks = append(breaks, b)
	}
	return breaks, rows.Err()
}

// Create implements attendance.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, b attendance.BreakInterval) (attendance.BreakInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO break_intervals (attendance_id, break_start, break_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + breakColumns

	created, err := scanBreak(q.QueryRow(ctx, query, b.AttendanceID, b.BreakStart, b.BreakEnd, b.CreatedAt, b.UpdatedAt))
	if err != nil {
		return attendance.BreakInterval{}, fmt.Errorf("failed to create break interval: %w", err)
	}
	return created, nil
}

// ListByAttendance implements attendance.BreakRepository.
func (r *breakRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.BreakInterval, error) {
	return r.query(ctx, `
		SELECT `+breakColumns+`
		FROM break_intervals
		WHERE attendance_id = $1
		ORDER BY break_start ASC, id ASC
	`, attendanceID)
}

// ListByAttendanceIDs implements attendance.BreakRepository.
func (r *breakRepository) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.BreakInterval, error) {
	result := make(map[string][]attendance.BreakInterval)
	if len(attendanceIDs) == 0 {
		return result, nil
	}

	breaks, err := r.query(ctx, `
		SELECT `+breakColumns+`
		FROM break_intervals
		WHERE attendance_id = ANY($1::uuid[])
		ORDER BY attendance_id, break_start ASC, id ASC
	`, attendanceIDs)
	if err != nil {
		return nil, err
	}
	for _, b := range breaks {
		result[b.AttendanceID] = append(result[b.AttendanceID], b)
	}
	return result, nil
}

// GetOpen implements attendance.BreakRepository.
func (r *breakRepository) GetOpen(ctx context.Context, attendanceID string) (attendance.BreakInterval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM break_intervals
		WHERE attendance_id = $1 AND break_end IS NULL
		ORDER BY break_start ASC
		LIMIT 1
	`

	b, err := scanBreak(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.BreakInterval{}, attendance.ErrBreakNotFound
		}
		return attendance.BreakInterval{}, fmt.Errorf("failed to get open break: %w", err)
	}
	return b, nil
}

// Update implements attendance.BreakRepository.
func (r *breakRepository) Update(ctx context.Context, b attendance.BreakInterval) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_intervals
		SET break_start = $1, break_end = $2, updated_at = $3
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, b.BreakStart, b.BreakEnd, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update break interval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("break interval %s not found", b.ID)
	}
	return nil
}
