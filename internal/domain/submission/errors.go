package submission

import (
	"errors"
)

var (
	ErrInvalidInput              = errors.New("invalid input")
	ErrInvalidNationalID         = errors.New("invalid national id")
	ErrInvalidCard               = errors.New("invalid card number")
	ErrVerificationOutOfSequence = errors.New("verification step out of sequence")
	ErrUnknownStep               = errors.New("unknown verification step")
	ErrInvalidStatus             = errors.New("invalid status")
	ErrNotFound                  = errors.New("submission not found")
	ErrDuplicateProtocol         = errors.New("protocol code already in use")
)

// FieldError ties a sentinel to the offending field. Value only ever holds a
// masked or redacted rendering of the input.
type FieldError struct {
	Err   error
	Field string
	Value string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + " (" + e.Value + ")"
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(err error, field, masked string) *FieldError {
	return &FieldError{Err: err, Field: field, Value: masked}
}
