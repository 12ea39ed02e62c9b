package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoUsers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	svc := authService.NewAuthService(
		memory.NewUserRepository(memory.NewDB()),
		jwt.NewJWTService("test-secret-key-for-jwt", "1h", false),
	)

	created, err := SeedDemoUsers(ctx, svc, now)
	require.NoError(t, err)
	assert.Equal(t, len(DemoUsers), created)

	again, err := SeedDemoUsers(ctx, svc, now)
	require.NoError(t, err)
	assert.Zero(t, again, "existing accounts are skipped")

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "admin@example.com", Password: DemoPassword})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)
	assert.True(t, resp.User.EmailVerified)
}
