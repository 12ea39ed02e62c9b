package auth

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes the access token for the rest of its lifetime.
	Logout(ctx context.Context, token string) error
	CreateUser(ctx context.Context, req user.CreateUserRequest, now time.Time) (user.UserResponse, error)
}
