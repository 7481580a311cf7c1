package apperr

import "errors"

// Error taxonomy for the academic engine. Controllers translate these
// into HTTP statuses; services stay fiber-free.

// ValidationError: a business rule rejected the request (capacity
// exceeded, prerequisite unmet, grade out of range, duplicate
// enrollment). The message names the failing rule.
type ValidationError struct {
	Msg string
}

func NewValidation(msg string) error { return &ValidationError{Msg: msg} }

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError: a referenced entity does not exist.
type NotFoundError struct {
	Msg string
}

func NewNotFound(msg string) error { return &NotFoundError{Msg: msg} }

func (e *NotFoundError) Error() string { return e.Msg }

// StateConflictError: the operation is valid but the target is in the
// wrong lifecycle state (already finalized, non-class date). Signals a
// stale client view rather than bad input.
type StateConflictError struct {
	Msg string
}

func NewStateConflict(msg string) error { return &StateConflictError{Msg: msg} }

func (e *StateConflictError) Error() string { return e.Msg }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsStateConflict(err error) bool {
	var sc *StateConflictError
	return errors.As(err, &sc)
}
