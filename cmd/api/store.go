package main

import (
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/correction"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/postgresql"
)

// store bundles the repositories of one driver with its transactor.
type store struct {
	db          database.Transactor
	users       user.UserRepository
	attendances attendance.AttendanceRepository
	breaks      attendance.BreakRepository
	requests    correction.CorrectionRequestRepository
	close       func()
}

func openStore(cfg *config.Config) (*store, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		db := memory.NewDB()
		return &store{
			db:          db,
			users:       memory.NewUserRepository(db),
			attendances: memory.NewAttendanceRepository(db),
			breaks:      memory.NewBreakRepository(db),
			requests:    memory.NewCorrectionRequestRepository(db),
			close:       func() {},
		}, nil
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("error connecting to database: %w", err)
		}
		return &store{
			db:          db,
			users:       postgresql.NewUserRepository(db),
			attendances: postgresql.NewAttendanceRepository(db),
			breaks:      postgresql.NewBreakRepository(db),
			requests:    postgresql.NewCorrectionRequestRepository(db),
			close:       db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func (s *store) isMemory() bool {
	_, ok := s.db.(*memory.DB)
	return ok
}
