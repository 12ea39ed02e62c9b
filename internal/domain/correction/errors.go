package correction

import "errors"

var (
	ErrRequestNotFound      = errors.New("correction request not found")
	ErrPendingRequestExists = errors.New("a pending correction request already exists for this attendance")
	ErrInvalidFieldKey      = errors.New("invalid change-set field key")
	ErrInvalidStatusFilter  = errors.New("status must be pending or approved")
	ErrMultipleOpenBreaks   = errors.New("only one break may be left open")
)
