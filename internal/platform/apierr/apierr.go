package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/yungbote/classroom-backend/internal/pkg/errors"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidID          = "INVALID_ID"
	CodeInvalidType        = "INVALID_TYPE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeUserExists         = "USER_EXISTS"
	CodeUpdateFailed       = "UPDATE_FAILED"
	CodeDBNotConnected     = "DB_NOT_CONNECTED"
	CodeInternal           = "INTERNAL_ERROR"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// kindError keeps the caller-facing message while still matching the
// pkg/errors sentinel under errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func withKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func Validation(msg string) *Error {
	return New(http.StatusBadRequest, CodeValidation, withKind(pkgerrors.ErrInvalidArgument, msg))
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, CodeNotFound, withKind(pkgerrors.ErrNotFound, msg))
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, CodeForbidden, withKind(pkgerrors.ErrForbidden, msg))
}

func InvalidType(msg string) *Error {
	return New(http.StatusBadRequest, CodeInvalidType, withKind(pkgerrors.ErrInvalidType, msg))
}

func Conflict(code, msg string) *Error {
	return New(http.StatusConflict, code, withKind(pkgerrors.ErrConflict, msg))
}

func Unauthorized(code, msg string) *Error {
	return New(http.StatusUnauthorized, code, withKind(pkgerrors.ErrUnauthorized, msg))
}

func InvalidCredentials() *Error {
	return New(http.StatusUnauthorized, CodeInvalidCredentials, withKind(pkgerrors.ErrInvalidCredentials, "Invalid credentials"))
}

func Unavailable(msg string) *Error {
	return New(http.StatusServiceUnavailable, CodeDBNotConnected, withKind(pkgerrors.ErrUnavailable, msg))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// Is reports whether err carries the given api code.
func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
