package handler

import (
	"encoding/json"
	"net/http"
)

// InternalErrorMessage is the only detail clients see for unexpected failures.
const InternalErrorMessage = "internal error"

// Envelope is the JSON shape of every API answer.
type Envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type envelopeResponse struct {
	status  int
	headers http.Header
	body    Envelope
}

func (e envelopeResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	for k, vs := range e.headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.status)
	return json.NewEncoder(w).Encode(e.body)
}

// ResponseOption customises an envelope response.
type ResponseOption func(*envelopeResponse)

// WithHeader adds a response header.
func WithHeader(key, value string) ResponseOption {
	return func(r *envelopeResponse) {
		if r.headers == nil {
			r.headers = make(http.Header)
		}
		r.headers.Add(key, value)
	}
}

// Success answers 200 {"ok":true} with data when non-nil.
func Success(data any, opts ...ResponseOption) Response {
	r := envelopeResponse{status: http.StatusOK, body: Envelope{OK: true, Data: data}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Fail answers {"ok":false,"error":message} with the given status.
func Fail(status int, message string, opts ...ResponseOption) Response {
	r := envelopeResponse{status: status, body: Envelope{Error: message}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// FailError maps err to an envelope: HTTPError keeps its code and message,
// anything else becomes 500 "internal error".
func FailError(err error) Response {
	if httpErr, ok := asHTTPError(err); ok {
		return Fail(httpErr.Code, httpErr.Message)
	}
	return Fail(http.StatusInternalServerError, InternalErrorMessage)
}
