package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrForbidden means the caller is authenticated but lacks the class-scoped role.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidType is returned when an operation targets the wrong item kind.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidCredentials covers both unknown names and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnavailable is returned when storage cannot be reached.
	ErrUnavailable = errors.New("dependency unavailable")
)
