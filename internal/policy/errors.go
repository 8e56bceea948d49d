package policy

import "errors"

var (
	// ErrSelfAction rejects privileged actions on the caller's own account
	ErrSelfAction = errors.New("you cannot perform this action on your own account")
	// ErrForbidden rejects callers whose role does not grant the action
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrInvalidRole rejects role values outside admin/teacher/student
	ErrInvalidRole = errors.New("role must be one of admin, teacher or student")
)
