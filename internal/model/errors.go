package model

import (
	"errors"
	"fmt"
)

// Error kinds of report composition. Every error returned by the builder
// matches exactly one of them with errors.Is.
var (
	// ErrValidation marks missing or contradictory input. The caller can
	// recover by asking the user to fix the named field.
	ErrValidation = errors.New("validation error")

	// ErrEncoding marks content that cannot be represented in the chosen
	// export format. The caller can recover by changing format or content.
	ErrEncoding = errors.New("encoding error")

	// ErrIO marks an artifact that could not be written. It is fatal for
	// the current request only.
	ErrIO = errors.New("i/o error")
)

// Validation reasons used by the builder. They are part of the error text
// shown to the practitioner.
const (
	ReasonNoRegions  = "no regions selected"
	ReasonNoFindings = "empty findings"
	ReasonNoImages   = "no uploaded images"
)

// ValidationError names the input field that prevents composition.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// EncodingError names the section or field whose content cannot be encoded.
type EncodingError struct {
	Format ExportFormat
	Field  string
	Reason string
	Err    error
}

// Error implements error.
func (e *EncodingError) Error() string {
	msg := fmt.Sprintf("cannot encode %s as %s: %s", e.Field, e.Format, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrEncoding) succeed.
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// Unwrap returns the underlying library error, if any.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IOError names the artifact path that could not be written.
type IOError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *IOError) Error() string {
	return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err)
}

// Is makes errors.Is(err, ErrIO) succeed.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error {
	return e.Err
}
