package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
)

// Verified sends callers who have not confirmed their email address to the
// verification notice.
func Verified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		if !actor.Verified {
			http.Redirect(w, r, VerifyNoticePath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserArea admits regular users. Admins are sent to the admin list.
func UserArea(next http.Handler) http.Handler {
	return requireRole(user.RoleUser, AdminHomePath, next)
}

// AdminArea admits admins. Everyone else is sent to the punch page.
func AdminArea(next http.Handler) http.Handler {
	return requireRole(user.RoleAdmin, UserHomePath, next)
}

func requireRole(role user.Role, elsewhere string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		if actor.Role != role {
			http.Redirect(w, r, elsewhere, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission answers 403 unless the caller's role grants permission.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || !user.HasPermission(actor.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
