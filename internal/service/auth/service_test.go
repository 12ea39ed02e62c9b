package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

var testNow = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func newTestAuthService() (auth.AuthService, jwt.Service) {
	jwtService := jwt.NewJWTService(testSecret, testAccessExp, false)
	users := memory.NewUserRepository(memory.NewDB())
	return NewAuthService(users, jwtService), jwtService
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	t.Run("verified user", func(t *testing.T) {
		created, err := svc.CreateUser(ctx, user.CreateUserRequest{
			Name:     "Ann",
			Email:    "Ann@Example.com",
			Password: "password123",
			Role:     "user",
			Verified: true,
		}, testNow)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "ann@example.com", created.Email)
		assert.True(t, created.EmailVerified)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, user.CreateUserRequest{
			Name:     "Ann Again",
			Email:    "ann@example.com",
			Password: "password123",
			Role:     "admin",
		}, testNow)
		assert.ErrorIs(t, err, user.ErrUserEmailExists)
	})

	t.Run("invalid request", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, user.CreateUserRequest{
			Email:    "not-an-email",
			Password: "short",
			Role:     "owner",
		}, testNow)
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		for _, field := range []string{"name", "email", "password", "role"} {
			assert.True(t, verrs.Has(field), field)
		}
	})
}

func TestLogin(t *testing.T) {
	svc, jwtService := newTestAuthService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, user.CreateUserRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "password123",
		Role:     "admin",
	}, testNow)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Email: " ROOT@example.com ", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "admin", resp.User.Role)
		assert.False(t, resp.User.EmailVerified)

		token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
		require.NoError(t, err)
		claims, err := token.AsMap(ctx)
		require.NoError(t, err)
		actor, err := jwt.ActorFromClaims(claims)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, actor.ID)
		assert.False(t, actor.Verified)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "root@example.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("email"))
		assert.True(t, verrs.Has("password"))
	})
}

func TestLogout(t *testing.T) {
	svc, jwtService := newTestAuthService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, user.CreateUserRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "password123",
		Role:     "user",
		Verified: true,
	}, testNow)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, svc.Logout(ctx, ""), auth.ErrInvalidToken)
	assert.ErrorIs(t, svc.Logout(ctx, "garbage"), auth.ErrInvalidToken)
}
