package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func cloneAttendance(a attendance.Attendance) attendance.Attendance {
	a.ClockIn = clonePtr(a.ClockIn)
	a.ClockOut = clonePtr(a.ClockOut)
	a.Memo = clonePtr(a.Memo)
	a.UserName = nil
	a.Breaks = nil
	return a
}

// withUser fills the joined columns. Caller holds the read lock.
func (r *attendanceRepository) withUser(a attendance.Attendance) attendance.Attendance {
	a = cloneAttendance(a)
	if u, ok := r.db.users[a.UserID]; ok {
		name := u.Name
		a.UserName = &name
	}
	return a
}

func (r *attendanceRepository) CreateIfAbsent(ctx context.Context, a attendance.Attendance) (bool, error) {
	defer r.db.lockWrite(ctx)()

	for _, existing := range r.db.attendances {
		if existing.UserID == a.UserID && existing.WorkDate.Equal(a.WorkDate) {
			return false, nil
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.db.attendances[a.ID] = cloneAttendance(a)
	return true, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	a, ok := r.db.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withUser(a), nil
}

// LockByID relies on transactions being serialised.
func (r *attendanceRepository) LockByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.GetByID(ctx, id)
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, workDate time.Time) (attendance.Attendance, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, a := range r.db.attendances {
		if a.UserID == userID && a.WorkDate.Equal(workDate) {
			return r.withUser(a), nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (r *attendanceRepository) LockByUserAndDate(ctx context.Context, userID string, workDate time.Time) (attendance.Attendance, error) {
	return r.GetByUserAndDate(ctx, userID, workDate)
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	defer r.db.lockWrite(ctx)()

	stored, ok := r.db.attendances[a.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	stored.ClockIn = clonePtr(a.ClockIn)
	stored.ClockOut = clonePtr(a.ClockOut)
	stored.Memo = clonePtr(a.Memo)
	stored.UpdatedAt = a.UpdatedAt
	r.db.attendances[a.ID] = stored
	return nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]attendance.Attendance, 0)
	for _, a := range r.db.attendances {
		if filter.UserID != nil && a.UserID != *filter.UserID {
			continue
		}
		if !filter.From.IsZero() && a.WorkDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !a.WorkDate.Before(filter.To) {
			continue
		}
		result = append(result, r.withUser(a))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].WorkDate.Equal(result[j].WorkDate) {
			return result[i].WorkDate.Before(result[j].WorkDate)
		}
		ni, nj := deref(result[i].UserName), deref(result[j].UserName)
		if ni != nj {
			return ni < nj
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
