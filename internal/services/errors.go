package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Service error kinds. Handlers map these to HTTP statuses; anything that is
// none of them is treated as an opaque storage failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)

// notFound wraps ErrNotFound with a subject, e.g. "user not found".
func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

// conflict wraps ErrConflict with a reason.
func conflict(why string) error {
	return fmt.Errorf("%s: %w", why, ErrConflict)
}

// invalidArgument wraps ErrInvalidArgument with a reason. Validation
// failures are raised before any write is attempted.
func invalidArgument(why string) error {
	return fmt.Errorf("%s: %w", why, ErrInvalidArgument)
}

// translateStoreError classifies errors coming back from gorm. Unique
// constraint rejections are the authoritative Conflict signal: even when a
// pre-check read lost a race, the violation still surfaces as Conflict.
// Everything else passes through as an opaque storage failure.
func translateStoreError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict(conflictMsg)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
