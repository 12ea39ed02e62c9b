package main

import (
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the embedded schema migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func runMigrate(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate needs DB_DRIVER=%s", config.DriverPostgres)
	}

	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}
	if direction == "down" {
		return database.MigrateDown(cfg.DatabaseURL())
	}
	return database.MigrateUp(cfg.DatabaseURL())
}
