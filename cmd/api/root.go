package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "timesheet",
	Short:         "Timesheet backend",
	Long:          `Daily time punching with reviewed attendance corrections.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the application logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	slog.SetDefault(appHTTP.NewLogger(os.Stdout, cfg.App.Env, cfg.LogLevel()))
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(useraddCmd)
}
