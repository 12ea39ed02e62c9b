package user

// Policy decides who may read or change attendance and correction
// records. Every check returns ErrForbidden or nil.
type Policy struct{}

func NewPolicy() Policy {
	return Policy{}
}

func (Policy) CanPunch(actor Actor) error {
	if !HasPermission(actor.Role, PermissionAttendancePunch) {
		return ErrForbidden
	}
	return nil
}

// CanViewAttendance allows the owner and anyone who may view all records.
func (Policy) CanViewAttendance(actor Actor, ownerID string) error {
	if HasPermission(actor.Role, PermissionAttendanceViewAll) {
		return nil
	}
	if actor.ID != "" && actor.ID == ownerID && HasPermission(actor.Role, PermissionAttendanceViewOwn) {
		return nil
	}
	return ErrForbidden
}

// CanSubmitCorrection allows the owner to request a correction and an
// editor to change the record directly.
func (Policy) CanSubmitCorrection(actor Actor, ownerID string) error {
	if HasPermission(actor.Role, PermissionAttendanceEdit) {
		return nil
	}
	if actor.ID != "" && actor.ID == ownerID && HasPermission(actor.Role, PermissionCorrectionRequest) {
		return nil
	}
	return ErrForbidden
}

// EditsDirectly reports whether a submission from actor is applied
// immediately instead of becoming a pending request.
func (Policy) EditsDirectly(actor Actor) bool {
	return HasPermission(actor.Role, PermissionAttendanceEdit)
}

func (Policy) CanApproveCorrection(actor Actor) error {
	if !HasPermission(actor.Role, PermissionCorrectionApprove) {
		return ErrForbidden
	}
	return nil
}

func (Policy) CanViewCorrection(actor Actor, ownerID string) error {
	if HasPermission(actor.Role, PermissionCorrectionViewAll) {
		return nil
	}
	if actor.ID != "" && actor.ID == ownerID {
		return nil
	}
	return ErrForbidden
}

// SeesAllCorrections reports whether list queries span every user.
func (Policy) SeesAllCorrections(actor Actor) bool {
	return HasPermission(actor.Role, PermissionCorrectionViewAll)
}

// SeesAllAttendance reports whether list queries span every user.
func (Policy) SeesAllAttendance(actor Actor) bool {
	return HasPermission(actor.Role, PermissionAttendanceViewAll)
}
