package user

type Permission string

const (
	// Time entry
	PermissionAttendancePunch   Permission = "attendance.punch"
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceEdit    Permission = "attendance.edit"

	// Corrections
	PermissionCorrectionRequest Permission = "correction.request"
	PermissionCorrectionViewAll Permission = "correction.view_all"
	PermissionCorrectionApprove Permission = "correction.approve"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceEdit,
		PermissionCorrectionViewAll,
		PermissionCorrectionApprove,
	},
	RoleUser: {
		PermissionAttendancePunch,
		PermissionAttendanceViewOwn,
		PermissionCorrectionRequest,
	},
}

// HasPermission checks if role has specific permission.
// Roles missing from RolePermissions have none.
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
