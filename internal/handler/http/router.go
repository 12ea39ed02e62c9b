package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewLogger builds the ECS-shaped JSON logger shared by the request log and
// the application.
func NewLogger(out io.Writer, env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timesheet"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}

func NewRouter(opts RouterOptions, jwtService jwt.Service, authHandler AuthHandler, attendanceHandler AttendanceHandler, correctionHandler CorrectionHandler) *chi.Mux {
	r := chi.NewRouter()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, middleware.UserHomePath, http.StatusSeeOther)
	})

	r.Get(middleware.LoginPath, authHandler.LoginNotice)
	r.Post(middleware.LoginPath, authHandler.Login)

	// Requires authentication
	r.Group(func(r chi.Router) {
		r.Use(middleware.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.Authenticated(jwtService))

		r.Post("/logout", authHandler.Logout)
		r.Get(middleware.VerifyNoticePath, authHandler.VerifyNotice)

		// Requires a verified email address
		r.Group(func(r chi.Router) {
			r.Use(middleware.Verified)

			r.Get("/attendance/list", attendanceHandler.List)
			r.Get("/attendance/{id}", correctionHandler.AttendanceDetail)
			r.Post("/attendance/{id}/correction", correctionHandler.Submit)
			r.Get("/correction-requests", correctionHandler.List)
			r.Get("/correction-requests/{id}", correctionHandler.Get)

			// Regular users only
			r.Group(func(r chi.Router) {
				r.Use(middleware.UserArea)
				r.Get(middleware.UserHomePath, attendanceHandler.Status)
				r.Post("/attendance/clock-in", attendanceHandler.ClockIn)
				r.Post("/attendance/break-start", attendanceHandler.BreakStart)
				r.Post("/attendance/break-end", attendanceHandler.BreakEnd)
				r.Post("/attendance/clock-out", attendanceHandler.ClockOut)
			})

			// Admins only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminArea)
				r.Get("/attendance", attendanceHandler.List)
				r.Get("/correction-requests", correctionHandler.List)
				r.With(middleware.RequirePermission(user.PermissionCorrectionApprove)).
					Post("/correction-requests/{id}/approve", correctionHandler.Approve)
			})
		})
	})
	return r
}
