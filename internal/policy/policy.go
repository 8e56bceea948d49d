// Package policy holds the access-control decisions consulted before any
// mutating or sensitive operation. Decisions are pure functions of the
// caller's identity and the target, so they are trivially testable and need
// no store access.
package policy

import "course_platform/internal/model"

// CanDeleteUser decides whether caller may delete the target account.
// The self-action guard is evaluated first and overrides admin privilege.
func CanDeleteUser(callerID int, callerRole string, targetID int) error {
	if callerID == targetID {
		return ErrSelfAction
	}
	if callerRole != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// CanUpdateRole decides whether caller may set target's role to newRole.
// Input validation precedes authorization: an unknown role value is rejected
// before the self-action guard is even considered.
func CanUpdateRole(callerID int, callerRole string, targetID int, newRole string) error {
	if !model.ValidRole(newRole) {
		return ErrInvalidRole
	}
	if callerID == targetID {
		return ErrSelfAction
	}
	if callerRole != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// CanCreateCourse decides whether caller may create course content.
func CanCreateCourse(callerRole string) error {
	if callerRole != model.RoleAdmin && callerRole != model.RoleTeacher {
		return ErrForbidden
	}
	return nil
}

// CanModifyCourse decides whether caller may update or delete a course.
// Admins may modify anything; teachers only content they own.
func CanModifyCourse(callerID int, callerRole string, ownerID int) error {
	if callerRole == model.RoleAdmin {
		return nil
	}
	if callerRole == model.RoleTeacher && callerID == ownerID {
		return nil
	}
	return ErrForbidden
}
