package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

// DB keeps every table in process memory. Transactions are serialised and
// roll back by restoring a copy of the tables taken when they began. Writes
// outside a transaction wait for the running one to finish, so a rollback
// only ever discards its own writes; plain reads see uncommitted writes.
type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users       map[string]user.User
	attendances map[string]attendance.Attendance
	breaks      map[string]attendance.BreakInterval
	requests    map[string]correction.CorrectionRequest
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]user.User),
		attendances: make(map[string]attendance.Attendance),
		breaks:      make(map[string]attendance.BreakInterval),
		requests:    make(map[string]correction.CorrectionRequest),
	}
}

type snapshot struct {
	users       map[string]user.User
	attendances map[string]attendance.Attendance
	breaks      map[string]attendance.BreakInterval
	requests    map[string]correction.CorrectionRequest
}

func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return snapshot{
		users:       maps.Clone(db.users),
		attendances: maps.Clone(db.attendances),
		breaks:      maps.Clone(db.breaks),
		requests:    maps.Clone(db.requests),
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.attendances = s.attendances
	db.breaks = s.breaks
	db.requests = s.requests
}

type txKey struct{}

// WithinTransaction implements database.Transactor.
func (db *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	saved := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(saved)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		db.restore(saved)
		return err
	}
	return nil
}

// lockWrite takes the table lock for a repository write and returns its
// release. Outside a transaction it also takes txMu, which the running
// transaction holds until it commits or restores its snapshot.
func (db *DB) lockWrite(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		db.mu.Lock()
		return db.mu.Unlock
	}
	db.txMu.Lock()
	db.mu.Lock()
	return func() {
		db.mu.Unlock()
		db.txMu.Unlock()
	}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
