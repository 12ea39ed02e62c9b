package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceSelect = `
	SELECT a.id, a.user_id, a.work_date, a.clock_in, a.clock_out, a.memo,
		   a.created_at, a.updated_at, u.name
	FROM attendances a
	JOIN users u ON u.id = a.user_id
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var userName string
	err := row.Scan(
		&att.ID, &att.UserID, &att.WorkDate, &att.ClockIn, &att.ClockOut, &att.Memo,
		&att.CreatedAt, &att.UpdatedAt, &userName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.UserName = &userName
	return att, nil
}

func (r *attendanceRepository) getOne(ctx context.Context, query string, args ...any) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	att, err := scanAttendance(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (r *attendanceRepository) CreateIfAbsent(ctx context.Context, newAttendance attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (user_id, work_date, clock_in, clock_out, memo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, work_date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		newAttendance.UserID,
		newAttendance.WorkDate,
		newAttendance.ClockIn,
		newAttendance.ClockOut,
		newAttendance.Memo,
		newAttendance.CreatedAt,
		newAttendance.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.getOne(ctx, attendanceSelect+` WHERE a.id = $1`, id)
}

// LockByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) LockByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.getOne(ctx, attendanceSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id)
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (attendance.Attendance, error) {
	return r.getOne(ctx, attendanceSelect+` WHERE a.user_id = $1 AND a.work_date = $2`, userID, workDate)
}

// LockByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) LockByUserAndDate(ctx context.Context, userID string, workDate time.Time) (attendance.Attendance, error) {
	return r.getOne(ctx, attendanceSelect+` WHERE a.user_id = $1 AND a.work_date = $2 FOR UPDATE OF a`, userID, workDate)
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET clock_in = $1, clock_out = $2, memo = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, att.ClockIn, att.ClockOut, att.Memo, att.UpdatedAt, att.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.work_date >= $%d", argIdx))
		args = append(args, filter.From)
		argIdx++
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, fmt.Sprintf("a.work_date < $%d", argIdx))
		args = append(args, filter.To)
		argIdx++
	}

	query := attendanceSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.work_date ASC, u.name ASC, a.id ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	attendances := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, nil
}
