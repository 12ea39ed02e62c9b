package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type breakRepository struct {
	db *DB
}

func NewBreakRepository(db *DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

// hasOtherOpen mirrors the partial unique index on open breaks. Caller
// holds the lock.
func (r *breakRepository) hasOtherOpen(attendanceID, exceptID string) bool {
	for _, b := range r.db.breaks {
		if b.AttendanceID == attendanceID && b.ID != exceptID && b.IsOpen() {
			return true
		}
	}
	return false
}

func (r *breakRepository) Create(ctx context.Context, b attendance.BreakInterval) (attendance.BreakInterval, error) {
	defer r.db.lockWrite(ctx)()

	if _, ok := r.db.attendances[b.AttendanceID]; !ok {
		return attendance.BreakInterval{}, attendance.ErrAttendanceNotFound
	}
	if b.IsOpen() && r.hasOtherOpen(b.AttendanceID, "") {
		return attendance.BreakInterval{}, fmt.Errorf("attendance %s already has an open break", b.AttendanceID)
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.BreakEnd = clonePtr(b.BreakEnd)
	r.db.breaks[b.ID] = b
	return b, nil
}

func (r *breakRepository) sorted(match func(attendance.BreakInterval) bool) []attendance.BreakInterval {
	result := make([]attendance.BreakInterval, 0)
	for _, b := range r.db.breaks {
		if match(b) {
			b.BreakEnd = clonePtr(b.BreakEnd)
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].BreakStart.Equal(result[j].BreakStart) {
			return result[i].BreakStart.Before(result[j].BreakStart)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *breakRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.BreakInterval, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.sorted(func(b attendance.BreakInterval) bool { return b.AttendanceID == attendanceID }), nil
}

func (r *breakRepository) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.BreakInterval, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	wanted := make(map[string]struct{}, len(attendanceIDs))
	for _, id := range attendanceIDs {
		wanted[id] = struct{}{}
	}
	result := make(map[string][]attendance.BreakInterval)
	for _, b := range r.sorted(func(b attendance.BreakInterval) bool {
		_, ok := wanted[b.AttendanceID]
		return ok
	}) {
		result[b.AttendanceID] = append(result[b.AttendanceID], b)
	}
	return result, nil
}

func (r *breakRepository) GetOpen(ctx context.Context, attendanceID string) (attendance.BreakInterval, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	open := r.sorted(func(b attendance.BreakInterval) bool { return b.AttendanceID == attendanceID && b.IsOpen() })
	if len(open) == 0 {
		return attendance.BreakInterval{}, attendance.ErrBreakNotFound
	}
	return open[0], nil
}

func (r *breakRepository) Update(ctx context.Context, b attendance.BreakInterval) error {
	defer r.db.lockWrite(ctx)()

	stored, ok := r.db.breaks[b.ID]
	if !ok {
		return fmt.Errorf("break interval %s not found", b.ID)
	}
	if b.IsOpen() && r.hasOtherOpen(stored.AttendanceID, b.ID) {
		return fmt.Errorf("attendance %s already has an open break", stored.AttendanceID)
	}
	stored.BreakStart = b.BreakStart
	stored.BreakEnd = clonePtr(b.BreakEnd)
	stored.UpdatedAt = b.UpdatedAt
	r.db.breaks[b.ID] = stored
	return nil
}
