package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a rejection from the identity provider.
type Error struct {
	Op     string
	Status int
	Code   string // provider error code, e.g. EMAIL_EXISTS
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity %s: %d %s", e.Op, e.Status, e.Code)
}

// UserMessage is the message shown on the sign-in and sign-up forms.
func (e *Error) UserMessage() string {
	switch e.Code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		return "Invalid email or password."
	case "USER_DISABLED":
		return "This account has been disabled."
	case "EMAIL_EXISTS":
		return "An account with this email already exists."
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "Too many attempts. Please try again later."
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "INVALID_ID_TOKEN", "USER_NOT_FOUND":
		return "Your session has expired. Please sign in again."
	}
	if strings.HasPrefix(e.Code, "WEAK_PASSWORD") {
		return "Password should be at least 6 characters."
	}
	return "Authentication failed. Please try again."
}

// UserMessage returns the form message for any error from this package.
func UserMessage(err error) string {
	var idErr *Error
	if errors.As(err, &idErr) {
		return idErr.UserMessage()
	}
	return "Authentication service unavailable. Please try again."
}

// ErrNotConfigured is returned when the provider has no API key.
var ErrNotConfigured = errors.New("identity provider not configured")
