package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/session"
	attendanceService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/timesheet-backend-go/internal/service/auth"
	correctionService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/correction"
	"github.com/spf13/cobra"
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server",
		RunE:  runServe,
	}
	seedDemo bool
)

func init() {
	serveCmd.Flags().BoolVar(&seedDemo, "seed-demo", true, "create demo accounts when running on the memory driver")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	loc := cfg.Location()
	now := time.Now
	secure := cfg.App.Env == "production"

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, secure)
	flashStore := session.NewCookieFlashStore(cfg.Session.Secret, cfg.Session.MaxAge, secure)

	authService := serviceAuth.NewAuthService(st.users, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(st.db, st.attendances, st.breaks, loc)
	correctionSvc := correctionService.NewCorrectionService(st.db, st.attendances, st.breaks, st.requests, loc)

	if st.isMemory() && seedDemo {
		if _, err := fixtures.SeedDemoUsers(cmd.Context(), authService, now()); err != nil {
			return err
		}
		slog.Info("Demo accounts ready", "password", fixtures.DemoPassword)
	}

	authHandler := appHTTP.NewAuthHandler(JWTService, authService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, flashStore, now)
	correctionHandler := appHTTP.NewCorrectionHandler(correctionSvc, now)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AllowedOrigins: strings.Split(cfg.App.FrontendURL, ","),
			Logger:         slog.Default(),
		},
		JWTService,
		authHandler,
		attendanceHandler,
		correctionHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Server running", "address", server.Addr, "driver", cfg.Database.Driver, "timezone", loc.String())
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	slog.Info("Server stopped")
	return nil
}
