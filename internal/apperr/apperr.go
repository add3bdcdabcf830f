// Package apperr defines the recoverable error taxonomy shared by the
// domain packages. The API layer maps each kind to a status code and a
// user-facing message; none of them should ever crash the process.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfSubscription is returned when a user tries to subscribe
	// to themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")

	// ErrEmptyCart is returned when a shopping list is requested for an
	// empty cart. Surfacing it is a deliberate policy: the caller renders
	// a message instead of silently producing an empty file.
	ErrEmptyCart = errors.New("shopping cart is empty")
)

// ValidationError reports a field-level precondition violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func NotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// AlreadyExistsError reports a uniqueness violation on a toggle or
// subscribe action: the row the caller wanted to create is already there.
type AlreadyExistsError struct {
	Entity string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Entity)
}

func AlreadyExists(entity string) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsAlreadyExists(err error) bool {
	var ae *AlreadyExistsError
	return errors.As(err, &ae)
}
