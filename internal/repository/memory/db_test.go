package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, db *DB, name string) user.User {
	t.Helper()
	u, err := NewUserRepository(db).Create(context.Background(), user.User{
		Name:  name,
		Email: name + "@example.com",
		Role:  user.RoleUser,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	db := NewDB()
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := seedUser(t, db, "ann")
	assert.NotEmpty(t, created.ID)

	_, err := repo.Create(ctx, user.User{Name: "Ann 2", Email: "ANN@example.com"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	found, err := repo.GetByEmail(ctx, "Ann@Example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestAttendanceRepository_CreateIfAbsent(t *testing.T) {
	db := NewDB()
	repo := NewAttendanceRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "ann")

	first := day.Add(9 * time.Hour)
	created, err := repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: day, ClockIn: &first})
	require.NoError(t, err)
	assert.True(t, created)

	second := day.Add(10 * time.Hour)
	created, err = repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: day, ClockIn: &second})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByUserAndDate(ctx, u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, first, *got.ClockIn)
	require.NotNil(t, got.UserName)
	assert.Equal(t, "ann", *got.UserName)
}

func TestBreakRepository_SingleOpenBreak(t *testing.T) {
	db := NewDB()
	ctx := context.Background()
	u := seedUser(t, db, "ann")
	attendances := NewAttendanceRepository(db)
	breaks := NewBreakRepository(db)

	_, err := attendances.CreateIfAbsent(ctx, attendance.Attendance{ID: "att-1", UserID: u.ID, WorkDate: day})
	require.NoError(t, err)

	open, err := breaks.Create(ctx, attendance.BreakInterval{AttendanceID: "att-1", BreakStart: day.Add(12 * time.Hour)})
	require.NoError(t, err)

	_, err = breaks.Create(ctx, attendance.BreakInterval{AttendanceID: "att-1", BreakStart: day.Add(13 * time.Hour)})
	assert.Error(t, err)

	got, err := breaks.GetOpen(ctx, "att-1")
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ID)

	end := day.Add(12*time.Hour + 30*time.Minute)
	got.BreakEnd = &end
	require.NoError(t, breaks.Update(ctx, got))

	_, err = breaks.GetOpen(ctx, "att-1")
	assert.ErrorIs(t, err, attendance.ErrBreakNotFound)
}

func TestBreakRepository_PositionalOrder(t *testing.T) {
	db := NewDB()
	ctx := context.Background()
	u := seedUser(t, db, "ann")
	_, err := NewAttendanceRepository(db).CreateIfAbsent(ctx, attendance.Attendance{ID: "att-1", UserID: u.ID, WorkDate: day})
	require.NoError(t, err)
	breaks := NewBreakRepository(db)

	for _, h := range []int{15, 10, 12} {
		end := day.Add(time.Duration(h)*time.Hour + 10*time.Minute)
		_, err := breaks.Create(ctx, attendance.BreakInterval{AttendanceID: "att-1", BreakStart: day.Add(time.Duration(h) * time.Hour), BreakEnd: &end})
		require.NoError(t, err)
	}

	list, err := breaks.ListByAttendance(ctx, "att-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 10, list[0].BreakStart.Hour())
	assert.Equal(t, 12, list[1].BreakStart.Hour())
	assert.Equal(t, 15, list[2].BreakStart.Hour())

	byID, err := breaks.ListByAttendanceIDs(ctx, []string{"att-1", "att-2"})
	require.NoError(t, err)
	assert.Len(t, byID["att-1"], 3)
	assert.Empty(t, byID["att-2"])
}

func TestDB_WithinTransactionRollsBack(t *testing.T) {
	db := NewDB()
	ctx := context.Background()
	u := seedUser(t, db, "ann")
	repo := NewAttendanceRepository(db)
	boom := errors.New("boom")

	err := db.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: day}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByUserAndDate(ctx, u.ID, day)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	err = db.WithinTransaction(ctx, func(ctx context.Context) error {
		// nested calls join the outer transaction
		return db.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: u.ID, WorkDate: day})
			return err
		})
	})
	require.NoError(t, err)

	_, err = repo.GetByUserAndDate(ctx, u.ID, day)
	assert.NoError(t, err)
}

func TestDB_RollbackKeepsWritesMadeOutsideTransaction(t *testing.T) {
	db := NewDB()
	ctx := context.Background()
	ann := seedUser(t, db, "ann")
	bob := seedUser(t, db, "bob")
	repo := NewAttendanceRepository(db)
	boom := errors.New("boom")

	inTx := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- db.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: ann.ID, WorkDate: day}); err != nil {
				return err
			}
			close(inTx)
			<-release
			return boom
		})
	}()
	<-inTx

	outsideDone := make(chan bool, 1)
	go func() {
		created, err := repo.CreateIfAbsent(ctx, attendance.Attendance{UserID: bob.ID, WorkDate: day})
		assert.NoError(t, err)
		outsideDone <- created
	}()

	select {
	case <-outsideDone:
		t.Fatal("write outside the transaction did not wait for it")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.ErrorIs(t, <-txDone, boom)
	assert.True(t, <-outsideDone)

	_, err := repo.GetByUserAndDate(ctx, ann.ID, day)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound, "rolled back")
	_, err = repo.GetByUserAndDate(ctx, bob.ID, day)
	assert.NoError(t, err, "survives the unrelated rollback")
}

func TestCorrectionRequestRepository_ListOrderAndFilters(t *testing.T) {
	db := NewDB()
	ctx := context.Background()
	ann := seedUser(t, db, "ann")
	bob := seedUser(t, db, "bob")
	repo := NewCorrectionRequestRepository(db)

	pending := correction.StatusPending
	mk := func(userID string, date time.Time, created time.Time, status correction.Status) correction.CorrectionRequest {
		req, err := repo.Create(ctx, correction.CorrectionRequest{
			UserID:       userID,
			AttendanceID: "att-" + userID,
			RequestDate:  date,
			Status:       status,
			Changes:      correction.ChangeSet{{Field: correction.KeyMemo, Requested: "x"}},
			Reason:       "x",
			CreatedAt:    created,
		})
		require.NoError(t, err)
		return req
	}

	older := mk(ann.ID, day, day.Add(time.Hour), correction.StatusApproved)
	newerSameDay := mk(ann.ID, day, day.Add(2*time.Hour), correction.StatusPending)
	latestDay := mk(bob.ID, day.AddDate(0, 0, 1), day, correction.StatusPending)

	all, err := repo.List(ctx, correction.CorrectionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{latestDay.ID, newerSameDay.ID, older.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "bob", *all[0].UserName)

	own, err := repo.List(ctx, correction.CorrectionFilter{UserID: &ann.ID, Status: &pending})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, newerSameDay.ID, own[0].ID)

	has, err := repo.HasPending(ctx, ann.ID, "att-"+ann.ID)
	require.NoError(t, err)
	assert.True(t, has)

	latest, err := repo.LatestByAttendance(ctx, "att-"+ann.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newerSameDay.ID, latest.ID)

	none, err := repo.LatestByAttendance(ctx, "att-none")
	require.NoError(t, err)
	assert.Nil(t, none)
}
