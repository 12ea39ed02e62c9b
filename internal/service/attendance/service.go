package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	db             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	breakRepo      attendance.BreakRepository
	policy         user.Policy
	loc            *time.Location
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, actor user.Actor, now time.Time) (attendance.PunchResponse, error) {
	if err := s.policy.CanPunch(actor); err != nil {
		return attendance.PunchResponse{}, err
	}
	today := attendance.DateOf(now, s.loc)

	applied := false
	_, err := s.attendanceRepo.GetByUserAndDate(ctx, actor.ID, today)
	switch {
	case err == nil:
		slog.Debug("Clock in ignored, already clocked in today", "user_id", actor.ID, "work_date", today.Format(attendance.DateLayout))
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		clockIn := now
		// A concurrent clock-in for the same day loses on the unique key.
		applied, err = s.attendanceRepo.CreateIfAbsent(ctx, attendance.Attendance{
			UserID:    actor.ID,
			WorkDate:  today,
			ClockIn:   &clockIn,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return attendance.PunchResponse{}, fmt.Errorf("failed to create attendance: %w", err)
		}
	default:
		return attendance.PunchResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if applied {
		slog.Info("Clocked in", "user_id", actor.ID, "work_date", today.Format(attendance.DateLayout))
	}
	return s.punchResponse(ctx, actor, now, attendance.PunchClockIn, applied)
}

// BreakStart implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) BreakStart(ctx context.Context, actor user.Actor, now time.Time) (attendance.PunchResponse, error) {
	applied, err := s.punch(ctx, actor, now, func(ctx context.Context, a attendance.Attendance) (bool, error) {
		if a.ClockIn == nil || a.ClockOut != nil {
			return false, nil
		}
		if _, err := s.breakRepo.GetOpen(ctx, a.ID); err == nil {
			return false, nil
		} else if !errors.Is(err, attendance.ErrBreakNotFound) {
			return false, fmt.Errorf("failed to get open break: %w", err)
		}

		if _, err := s.breakRepo.Create(ctx, attendance.BreakInterval{
			AttendanceID: a.ID,
			BreakStart:   now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return false, fmt.Errorf("failed to create break: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	return s.punchResponse(ctx, actor, now, attendance.PunchBreakStart, applied)
}

// BreakEnd implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) BreakEnd(ctx context.Context, actor user.Actor, now time.Time) (attendance.PunchResponse, error) {
	applied, err := s.punch(ctx, actor, now, func(ctx context.Context, a attendance.Attendance) (bool, error) {
		open, err := s.breakRepo.GetOpen(ctx, a.ID)
		if errors.Is(err, attendance.ErrBreakNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to get open break: %w", err)
		}

		end := now
		open.BreakEnd = &end
		open.UpdatedAt = now
		if err := s.breakRepo.Update(ctx, open); err != nil {
			return false, fmt.Errorf("failed to end break: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	return s.punchResponse(ctx, actor, now, attendance.PunchBreakEnd, applied)
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, actor user.Actor, now time.Time) (attendance.PunchResponse, error) {
	applied, err := s.punch(ctx, actor, now, func(ctx context.Context, a attendance.Attendance) (bool, error) {
		// An open break stays open; status keeps reporting on_break.
		if a.ClockOut != nil {
			return false, nil
		}

		clockOut := now
		a.ClockOut = &clockOut
		a.UpdatedAt = now
		if err := s.attendanceRepo.Update(ctx, a); err != nil {
			return false, fmt.Errorf("failed to clock out: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	return s.punchResponse(ctx, actor, now, attendance.PunchClockOut, applied)
}

// punch runs step against today's attendance with the row locked. A day
// without attendance leaves nothing to apply.
func (s *AttendanceServiceImpl) punch(ctx context.Context, actor user.Actor, now time.Time, step func(ctx context.Context, a attendance.Attendance) (bool, error)) (bool, error) {
	if err := s.policy.CanPunch(actor); err != nil {
		return false, err
	}
	today := attendance.DateOf(now, s.loc)

	applied := false
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := s.attendanceRepo.LockByUserAndDate(ctx, actor.ID, today)
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to lock today's attendance: %w", err)
		}

		applied, err = step(ctx, a)
		return err
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (s *AttendanceServiceImpl) punchResponse(ctx context.Context, actor user.Actor, now time.Time, action attendance.PunchAction, applied bool) (attendance.PunchResponse, error) {
	if !applied {
		slog.Debug("Punch had no effect", "user_id", actor.ID, "action", action)
	}
	status, err := s.GetStatus(ctx, actor, now)
	if err != nil {
		return attendance.PunchResponse{}, err
	}
	return attendance.PunchResponse{
		Action:  action,
		Applied: applied,
		Status:  status,
	}, nil
}

// GetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatus(ctx context.Context, actor user.Actor, now time.Time) (attendance.StatusResponse, error) {
	today := attendance.DateOf(now, s.loc)
	resp := attendance.StatusResponse{
		Status: attendance.StatusNotClockedIn,
		Now:    now.In(s.loc),
		Today:  today.Format(attendance.DateLayout),
	}

	a, err := s.attendanceRepo.GetByUserAndDate(ctx, actor.ID, today)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return resp, nil
	}
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	breaks, err := s.breakRepo.ListByAttendance(ctx, a.ID)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}
	a.Breaks = breaks

	detail := attendance.NewAttendanceResponse(a, s.loc)
	resp.Status = detail.Status
	resp.Attendance = &detail
	return resp, nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, actor user.Actor, req attendance.ListAttendanceRequest, now time.Time) (attendance.ListAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	month := req.MonthOr(attendance.DateOf(now, s.loc))
	from, to := attendance.MonthRange(month)
	filter := attendance.AttendanceFilter{From: from, To: to}
	if s.policy.SeesAllAttendance(actor) {
		if req.UserID != "" {
			filter.UserID = &req.UserID
		}
	} else {
		// Other users' records are never listed, whatever user_id says.
		filter.UserID = &actor.ID
	}

	rows, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.ID)
	}
	breaks, err := s.breakRepo.ListByAttendanceIDs(ctx, ids)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		Month:       month.Format(attendance.MonthLayout),
		Attendances: make([]attendance.AttendanceResponse, 0, len(rows)),
	}
	for i := range rows {
		rows[i].Breaks = breaks[rows[i].ID]
		resp.Attendances = append(resp.Attendances, attendance.NewAttendanceResponse(rows[i], s.loc))
	}
	resp.Stats = attendance.ComputeMonthlyStats(rows)
	return resp, nil
}

func NewAttendanceService(
	db database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		db:             db,
		attendanceRepo: attendanceRepo,
		breakRepo:      breakRepo,
		policy:         user.NewPolicy(),
		loc:            loc,
	}
}
