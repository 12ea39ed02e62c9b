package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

const (
	LoginPath        = "/login"
	VerifyNoticePath = "/email/verify"
	UserHomePath     = "/attendance"
	AdminHomePath    = "/admin/attendance"
)

type actorKey struct{}

// Verifier reads the access token from the Authorization header, then the
// jwt cookie. Failures are left for Authenticated to act on.
func Verifier(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(ja, jwtauth.TokenFromHeader, jwtauth.TokenFromCookie)
}

// RawToken returns the token string in the same order Verifier looks.
func RawToken(r *http.Request) string {
	if token := jwtauth.TokenFromHeader(r); token != "" {
		return token
	}
	return jwtauth.TokenFromCookie(r)
}

// Authenticated sends requests without a valid, unrevoked access token to
// the login page and stores the caller for the handlers behind it.
func Authenticated(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if jwtService.IsTokenRevoked(RawToken(r)) {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			actor, err := jwt.ActorFromClaims(claims)
			if err != nil {
				slog.Warn("Rejected access token", "error", err)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller stored by Authenticated.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
