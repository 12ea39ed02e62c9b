package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrInvalidRole           = errors.New("invalid role")
	ErrForbidden             = errors.New("you are not allowed to perform this action")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrEmailNotVerified      = errors.New("email not verified")
	ErrInvalidPasswordLength = errors.New("password must be at least 8 characters")
)
