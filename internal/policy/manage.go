package policy

import "github.com/pontodeaula/pontoaula/internal/users"

// User-management permissions depend on the target's role rather than
// an owner reference, so they live outside the generic grant table.

// CanManageAllUsers reports whether role administers every account.
func CanManageAllUsers(role users.Role) bool {
	return role == users.RoleAdmin
}

// CanManageLimitedUsers reports whether role administers only teacher
// and student accounts.
func CanManageLimitedUsers(role users.Role) bool {
	return role == users.RoleSecretary
}

// CanViewUsers reports whether role may open the user management page.
func CanViewUsers(role users.Role) bool {
	return CanManageAllUsers(role) || CanManageLimitedUsers(role)
}

// CanManageUserRole reports whether current may manage an account
// holding target.
func CanManageUserRole(current, target users.Role) bool {
	if CanManageAllUsers(current) {
		return true
	}
	if CanManageLimitedUsers(current) {
		return target == users.RoleTeacher || target == users.RoleStudent
	}
	return false
}

// ShouldHideSelf reports whether target is the current user's own row,
// which user listings omit.
func ShouldHideSelf(current *users.User, target users.User) bool {
	return current != nil && current.ID == target.ID
}
