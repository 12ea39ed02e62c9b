package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type correctionRequestRepository struct {
	db *database.DB
}

func NewCorrectionRequestRepository(db *database.DB) correction.CorrectionRequestRepository {
	return &correctionRequestRepository{db: db}
}

const correctionSelect = `
	SELECT cr.id, cr.user_id, cr.attendance_id, cr.request_date, cr.status, cr.changes,
		   cr.current_value, cr.requested_value, cr.reason, cr.approved_by, cr.approved_at,
		   cr.created_at, cr.updated_at, u.name
	FROM correction_requests cr
	JOIN users u ON u.id = cr.user_id
`

func scanCorrectionRequest(row pgx.Row) (correction.CorrectionRequest, error) {
	var req correction.CorrectionRequest
	var changes []byte
	var userName string
	err := row.Scan(
		&req.ID, &req.UserID, &req.AttendanceID, &req.RequestDate, &req.Status, &changes,
		&req.CurrentTime, &req.RequestedTime, &req.Reason, &req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt, &userName,
	)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	if err := json.Unmarshal(changes, &req.Changes); err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to decode changes of request %s: %w", req.ID, err)
	}
	req.UserName = &userName
	return req, nil
}

func (r *correctionRequestRepository) getOne(ctx context.Context, query string, args ...any) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanCorrectionRequest(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.CorrectionRequest{}, correction.ErrRequestNotFound
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request: %w", err)
	}
	return req, nil
}

// Create implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepository) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	changes, err := json.Marshal(req.Changes)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to encode changes: %w", err)
	}

	query := `
		INSERT INTO correction_requests (
			user_id, attendance_id, request_date, status, changes,
			current_value, requested_value, reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id string
	err = q.QueryRow(ctx, query,
		req.UserID,
		req.AttendanceID,
		req.RequestDate,
		req.Status,
		changes,
		req.CurrentTime,
		req.RequestedTime,
		req.Reason,
		req.CreatedAt,
		req.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	return r.getOne(ctx, correctionSelect+` WHERE cr.id = $1`, id)
}

// LockByID implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepository) LockByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	return r.getOne(ctx, correctionSelect+` WHERE cr.id = $1 FOR UPDATE OF cr`, id)
}

// HasPending implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepository) HasPending(ctx context.Context, userID, attendanceID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM correction_requests
			WHERE user_id = $1 AND attendance_id = $2 AND status = 'pending'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, attendanceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending requests: %w", err)
	}
	return exists, nil
}

// LatestByAttendance implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepository) LatestByAttendance(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	req, err := r.getOne(ctx, correctionSelect+`
		WHERE cr.attendance_id = $1
		ORDER BY cr.created_at DESC, cr.id DESC
		LIMIT 1
	`, attendanceID)
	if err != nil {
		if errors.Is(err, correction.ErrRequestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// List implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepository) List(ctx context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("cr.user_id = $%d", argIdx))
		args = append(args, *filter.UserID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("cr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	query := correctionSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY cr.request_date DESC, cr.created_at DESC, cr.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	requests := make([]correction.CorrectionRequest, 0)
	for rows.Next() {
		req, err := scanCorrectionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate correction requests: %w", err)
	}

	return requests, nil
}

// Update implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepository) Update(ctx context.Context, req correction.CorrectionRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, req.Status, req.ApprovedBy, req.ApprovedAt, req.UpdatedAt, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update correction request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrRequestNotFound
	}
	return nil
}
