package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a status code and a client-safe message.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

// NewHTTPError builds an HTTPError. An empty message falls back to the status text.
func NewHTTPError(code int, message string, cause ...error) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Message: message, Err: errors.Join(cause...)}
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }
