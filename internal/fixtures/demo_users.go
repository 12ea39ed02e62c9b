package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
)

// ==========================================
// DEMO ACCOUNTS
// ==========================================

// DemoPassword is shared by every demo account.
const DemoPassword = "password123"

// DemoUsers are seeded into the in-memory store so a fresh server can be
// logged into without running useradd.
var DemoUsers = []user.CreateUserRequest{
	{Name: "Admin", Email: "admin@example.com", Password: DemoPassword, Role: string(user.RoleAdmin), Verified: true},
	{Name: "Alice", Email: "alice@example.com", Password: DemoPassword, Role: string(user.RoleUser), Verified: true},
	{Name: "Bob", Email: "bob@example.com", Password: DemoPassword, Role: string(user.RoleUser), Verified: true},
	{Name: "Carol", Email: "carol@example.com", Password: DemoPassword, Role: string(user.RoleUser)},
}

// SeedDemoUsers creates DemoUsers, skipping accounts that already exist.
func SeedDemoUsers(ctx context.Context, authService auth.AuthService, now time.Time) (int, error) {
	created := 0
	for _, req := range DemoUsers {
		if _, err := authService.CreateUser(ctx, req, now); err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				continue
			}
			return created, fmt.Errorf("seed %s: %w", req.Email, err)
		}
		created++
	}
	slog.Info("Demo users seeded", "count", created)
	return created, nil
}
