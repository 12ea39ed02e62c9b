package memory

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	defer r.db.lockWrite(ctx)()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	newUser.EmailVerifiedAt = clonePtr(newUser.EmailVerifiedAt)
	r.db.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	if u, ok := r.db.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}
