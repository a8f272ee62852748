package service

import (
	"errors"
	"fmt"

	"choir-attendance/internal/store"
)

var (
	ErrNotFound     = store.ErrNotFound
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	// ErrBadCredentials hides whether the username or the password was wrong.
	ErrBadCredentials = errors.New("invalid username or password")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
