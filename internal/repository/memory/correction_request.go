package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/google/uuid"
)

type correctionRequestRepository struct {
	db *DB
}

func NewCorrectionRequestRepository(db *DB) correction.CorrectionRequestRepository {
	return &correctionRequestRepository{db: db}
}

func cloneRequest(req correction.CorrectionRequest) correction.CorrectionRequest {
	req.Changes = slices.Clone(req.Changes)
	req.ApprovedBy = clonePtr(req.ApprovedBy)
	req.ApprovedAt = clonePtr(req.ApprovedAt)
	req.UserName = nil
	return req
}

// withUser fills the joined columns. Caller holds the read lock.
func (r *correctionRequestRepository) withUser(req correction.CorrectionRequest) correction.CorrectionRequest {
	req = cloneRequest(req)
	if u, ok := r.db.users[req.UserID]; ok {
		name := u.Name
		req.UserName = &name
	}
	return req
}

func (r *correctionRequestRepository) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	defer r.db.lockWrite(ctx)()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	r.db.requests[req.ID] = cloneRequest(req)
	return r.withUser(req), nil
}

func (r *correctionRequestRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	req, ok := r.db.requests[id]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrRequestNotFound
	}
	return r.withUser(req), nil
}

// LockByID relies on transactions being serialised.
func (r *correctionRequestRepository) LockByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *correctionRequestRepository) HasPending(ctx context.Context, userID, attendanceID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, req := range r.db.requests {
		if req.UserID == userID && req.AttendanceID == attendanceID && req.Status == correction.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *correctionRequestRepository) LatestByAttendance(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var latest *correction.CorrectionRequest
	for _, req := range r.db.requests {
		if req.AttendanceID != attendanceID {
			continue
		}
		if latest == nil || newer(req, *latest) {
			found := r.withUser(req)
			latest = &found
		}
	}
	return latest, nil
}

func (r *correctionRequestRepository) List(ctx context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionRequest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]correction.CorrectionRequest, 0)
	for _, req := range r.db.requests {
		if filter.UserID != nil && req.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		result = append(result, r.withUser(req))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].RequestDate.Equal(result[j].RequestDate) {
			return result[i].RequestDate.After(result[j].RequestDate)
		}
		return newer(result[i], result[j])
	})
	return result, nil
}

func (r *correctionRequestRepository) Update(ctx context.Context, req correction.CorrectionRequest) error {
	defer r.db.lockWrite(ctx)()

	stored, ok := r.db.requests[req.ID]
	if !ok {
		return correction.ErrRequestNotFound
	}
	stored.Status = req.Status
	stored.ApprovedBy = clonePtr(req.ApprovedBy)
	stored.ApprovedAt = clonePtr(req.ApprovedAt)
	stored.UpdatedAt = req.UpdatedAt
	r.db.requests[req.ID] = stored
	return nil
}

func newer(a, b correction.CorrectionRequest) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
