package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/yungbote/classroom-backend/internal/pkg/errors"
)

func TestConstructorsCarrySentinels(t *testing.T) {
	cases := []struct {
		err    *Error
		kind   error
		status int
		code   string
	}{
		{Validation("Title is required"), pkgerrors.ErrInvalidArgument, http.StatusBadRequest, CodeValidation},
		{NotFound("Class not found"), pkgerrors.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{Forbidden("Forbidden"), pkgerrors.ErrForbidden, http.StatusForbidden, CodeForbidden},
		{InvalidType("Not a quiz item"), pkgerrors.ErrInvalidType, http.StatusBadRequest, CodeInvalidType},
		{Conflict(CodeUserExists, "User already exists"), pkgerrors.ErrConflict, http.StatusConflict, CodeUserExists},
		{InvalidCredentials(), pkgerrors.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{Unavailable("Database not connected"), pkgerrors.ErrUnavailable, http.StatusServiceUnavailable, CodeDBNotConnected},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%s: expected errors.Is(%v)", tc.code, tc.kind)
		}
		if tc.err.Status != tc.status || tc.err.Code != tc.code {
			t.Fatalf("%s: got status=%d code=%s", tc.code, tc.err.Status, tc.err.Code)
		}
	}
}

func TestErrorMessageIsCallerFacing(t *testing.T) {
	err := NotFound("Class not found")
	if err.Error() != "Class not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsMatchesWrapped(t *testing.T) {
	wrapped := fmt.Errorf("load class: %w", Forbidden("Forbidden"))
	if !Is(wrapped, CodeForbidden) {
		t.Fatalf("expected Is to see through wrapping")
	}
	if Is(wrapped, CodeNotFound) {
		t.Fatalf("unexpected code match")
	}
	if Is(errors.New("plain"), CodeForbidden) {
		t.Fatalf("plain errors carry no code")
	}
}
