package shared

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks recoverable input errors.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState marks actions attempted out of lifecycle order.
	ErrInvalidState = errors.New("invalid state")
	// ErrPersistence occurs when a snapshot could not be written or read.
	ErrPersistence = errors.New("storage unavailable")
)

// IsRecoverable reports whether err is a user-correctable notice rather than an internal failure.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPersistence)
}

// UserSafeMessage converts an error chain into a notice that can be shown to the user.
// Domain errors keep their detail; anything else collapses to a generic message.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrValidation):
		return detail(err, ErrValidation)
	case errors.Is(err, ErrInvalidState):
		return detail(err, ErrInvalidState)
	case errors.Is(err, ErrNotFound):
		return detail(err, ErrNotFound)
	case errors.Is(err, ErrPersistence):
		return "Could not save right now, please try again"
	default:
		return "Something went wrong, please try again"
	}
}

// detail returns the text after the sentinel, e.g. "validation failed: quantity required" -> "quantity required".
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		msg = msg[idx+len(prefix):]
	}
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
