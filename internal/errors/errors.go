// Package errors defines the sentinel errors shared across the relay pipeline
// and small helpers for wrapping and matching them.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict signals a uniqueness violation, typically a second sent
	// attempt racing for the same checkout.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput signals a payload or argument that fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable signals that a downstream provider or the attempt ledger
	// could not be reached or answered with a failure.
	ErrUnavailable = errors.New("unavailable")
)

// Wrap annotates err with a message while keeping the chain intact for
// errors.Is checks. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
