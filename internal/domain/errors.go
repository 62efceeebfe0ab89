package domain

import "errors"

// Sentinel errors shared across repositories and services.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateCode  = errors.New("code already in use")
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrInvalidTransition is returned for a visit status change that the
	// lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid visit status transition")

	// ErrDateTooEarly is returned when a visit is scheduled before the
	// earliest allowed date.
	ErrDateTooEarly = errors.New("scheduled date is earlier than allowed")

	// ErrRoleCycle is returned when a role update would make a role its own
	// ancestor.
	ErrRoleCycle = errors.New("role parent would create a cycle")

	// ErrRoleHasChildren is returned when deleting a role that still has
	// child roles.
	ErrRoleHasChildren = errors.New("role still has child roles")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
