package intake

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfig         = errors.New("intake: invalid configuration")
	ErrProviderNotConfigured = errors.New("intake: email provider not configured")
	ErrPrimaryDispatch       = errors.New("intake: vendor notification failed")
	ErrInternal              = errors.New("intake: internal failure")
)

// MissingFieldsError lists required customer fields that were blank, in
// canonical order.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing fields: " + strings.Join(e.Fields, ", ")
}

// InvalidFieldsError lists customer fields that were present but malformed.
type InvalidFieldsError struct {
	Fields []string
}

func (e *InvalidFieldsError) Error() string {
	return "Invalid fields: " + strings.Join(e.Fields, ", ")
}

// DispatchError is a failed vendor notification. StatusCode is zero when the
// provider was not reached, in which case Err holds the transport error.
type DispatchError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("intake: %s request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("intake: %s answered %d", e.Provider, e.StatusCode)
}

// Public is the short message safe to show the caller.
func (e *DispatchError) Public() string {
	if e.StatusCode == 0 {
		return e.Provider + " unreachable"
	}
	return fmt.Sprintf("%s %d", e.Provider, e.StatusCode)
}

func (e *DispatchError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrPrimaryDispatch, e.Err}
	}
	return []error{ErrPrimaryDispatch}
}
