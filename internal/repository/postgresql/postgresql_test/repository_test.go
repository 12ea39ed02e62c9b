package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workDate = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func createUser(t *testing.T, setup *TestDatabaseSetup, email string, role user.Role) user.User {
	t.Helper()
	u, err := postgresql.NewUserRepository(setup.DB).Create(context.Background(), user.User{
		Name:         "Test " + email,
		Email:        email,
		Role:         role,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	created := createUser(t, setup, "Ann@Example.com", user.RoleAdmin)
	assert.Equal(t, "ann@example.com", created.Email)
	assert.Equal(t, user.RoleAdmin, created.Role)

	_, err := repo.Create(ctx, user.User{Name: "dup", Email: "ann@example.com", Role: user.RoleUser, PasswordHash: "x"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	found, err := repo.GetByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceRepository_CreateIfAbsentAndLock(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	u := createUser(t, setup, "punch@example.com", user.RoleUser)

	in := workDate.Add(9 * time.Hour)
	created, err := repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: workDate, ClockIn: &in, CreatedAt: in, UpdatedAt: in})
	require.NoError(t, err)
	assert.True(t, created)

	later := in.Add(time.Hour)
	created, err = repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: workDate, ClockIn: &later, CreatedAt: later, UpdatedAt: later})
	require.NoError(t, err)
	assert.False(t, created)

	err = setup.DB.WithinTransaction(ctx, func(ctx context.Context) error {
		att, err := repo.LockByUserAndDate(ctx, u.ID, workDate)
		if err != nil {
			return err
		}
		assert.True(t, in.Equal(*att.ClockIn))
		out := in.Add(9 * time.Hour)
		memo := "done"
		att.ClockOut = &out
		att.Memo = &memo
		att.UpdatedAt = out
		return repo.Update(ctx, att)
	})
	require.NoError(t, err)

	list, err := repo.List(ctx, attendance.AttendanceFilter{UserID: &u.ID, From: workDate, To: workDate.AddDate(0, 1, 0)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ClockOut)
	assert.Equal(t, "done", *list[0].Memo)
	assert.Equal(t, "Test punch@example.com", *list[0].UserName)
	assert.True(t, workDate.Equal(list[0].WorkDate))
}

func TestBreakRepository_OpenBreakIndex(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	attendances := postgresql.NewAttendanceRepository(setup.DB)
	breaks := postgresql.NewBreakRepository(setup.DB)
	u := createUser(t, setup, "break@example.com", user.RoleUser)

	_, err := attendances.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: workDate})
	require.NoError(t, err)
	att, err := attendances.GetByUserAndDate(ctx, u.ID, workDate)
	require.NoError(t, err)

	open, err := breaks.Create(ctx, attendance.BreakInterval{AttendanceID: att.ID, BreakStart: workDate.Add(12 * time.Hour)})
	require.NoError(t, err)

	_, err = breaks.Create(ctx, attendance.BreakInterval{AttendanceID: att.ID, BreakStart: workDate.Add(13 * time.Hour)})
	assert.Error(t, err, "partial unique index allows one open break")

	got, err := breaks.GetOpen(ctx, att.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ID)

	end := workDate.Add(12*time.Hour + 30*time.Minute)
	got.BreakEnd = &end
	require.NoError(t, breaks.Update(ctx, got))

	_, err = breaks.GetOpen(ctx, att.ID)
	assert.ErrorIs(t, err, attendance.ErrBreakNotFound)

	byID, err := breaks.ListByAttendanceIDs(ctx, []string{att.ID})
	require.NoError(t, err)
	assert.Len(t, byID[att.ID], 1)
}

func TestCorrectionRequestRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	attendances := postgresql.NewAttendanceRepository(setup.DB)
	repo := postgresql.NewCorrectionRequestRepository(setup.DB)
	u := createUser(t, setup, "fix@example.com", user.RoleUser)
	admin := createUser(t, setup, "boss@example.com", user.RoleAdmin)

	_, err := attendances.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: workDate})
	require.NoError(t, err)
	att, err := attendances.GetByUserAndDate(ctx, u.ID, workDate)
	require.NoError(t, err)

	now := time.Date(2024, 5, 7, 8, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, correction.CorrectionRequest{
		UserID:        u.ID,
		AttendanceID:  att.ID,
		RequestDate:   workDate,
		Status:        correction.StatusPending,
		Changes:       correction.ChangeSet{{Field: correction.KeyClockIn, Current: "09:00", Requested: "08:30"}},
		CurrentTime:   "09:00",
		RequestedTime: "08:30",
		Reason:        "late train",
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, correction.KeyClockIn, created.Changes[0].Field)

	pending, err := repo.HasPending(ctx, u.ID, att.ID)
	require.NoError(t, err)
	assert.True(t, pending)

	err = setup.DB.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := repo.LockByID(ctx, created.ID)
		if err != nil {
			return err
		}
		req.Approve(admin.ID, now.Add(time.Hour))
		return repo.Update(ctx, req)
	})
	require.NoError(t, err)

	approved := correction.StatusApproved
	list, err := repo.List(ctx, correction.CorrectionFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, admin.ID, *list[0].ApprovedBy)

	latest, err := repo.LatestByAttendance(ctx, att.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, created.ID, latest.ID)
}

func TestWithinTransaction_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)
	u := createUser(t, setup, "rollback@example.com", user.RoleUser)
	boom := errors.New("boom")

	err := setup.DB.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: workDate}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByUserAndDate(ctx, u.ID, workDate)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}
