package user

import "time"

type Role string

const (
	RoleUser  Role = "user"  // Punches time and requests corrections
	RoleAdmin Role = "admin" // Reviews, approves and directly edits attendance
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID              string
	Name            string
	Email           string
	Role            Role
	PasswordHash    string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsVerified checks if the user confirmed their email address
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Actor returns the identity the policy evaluates for this user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role, Verified: u.IsVerified()}
}

// Actor is the authenticated caller of an operation, as read from the
// access token.
type Actor struct {
	ID       string
	Name     string
	Role     Role
	Verified bool
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
