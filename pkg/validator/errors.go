package validator

import "errors"

var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFieldRequired is returned when a required field is blank.
	ErrFieldRequired = errors.New("field is required")

	// ErrInvalidFormat is returned when a field has an invalid format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidValue is returned when a field holds a value outside its allowed set.
	ErrInvalidValue = errors.New("invalid value")
)
