package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Ledger errors
	ErrRecordNotFound  = errors.New("progress record not found")
	ErrWorkoutNotFound = errors.New("workout not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrSelfFollow   = errors.New("cannot follow yourself")

	// Ranking errors
	ErrLocationUnavailable = errors.New("location unavailable for ranking")
	ErrNoUsersFound        = errors.New("no users found for ranking")
	ErrUnknownDimension    = errors.New("unknown ranking dimension")
	ErrUnknownWindow       = errors.New("unknown ranking time window")

	// ErrCapReached signals that a date already sits at the daily XP cap.
	// Not a failure — callers surface it as user feedback.
	ErrCapReached = errors.New("daily XP cap reached")
)

// ValidationError rejects a mutation before any ledger write. No partial
// state is ever produced by a validation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
