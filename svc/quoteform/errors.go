package quoteform

import (
	"errors"
	"fmt"
)

var (
	ErrSubmitInFlight = errors.New("quoteform: a submission is already in flight")
	ErrDialogClosed   = errors.New("quoteform: dialog is not open")
	ErrInvalidLead    = errors.New("quoteform: lead is not valid")
	ErrUnknownField   = errors.New("quoteform: unknown lead field")
	ErrRequestFailed  = errors.New("quoteform: quote request failed")
)

// StatusError is returned by Client when the intake endpoint answers with a
// non-success status. Message is the envelope error, when present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("quoteform: intake answered %d", e.Code)
	}
	return fmt.Sprintf("quoteform: intake answered %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrRequestFailed }
