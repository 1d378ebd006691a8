package email

import (
	"context"
	"fmt"
	"strings"
)

// Sender delivers one message per call.
type Sender interface {
	// Send submits msg. A non-nil error means the provider was not reached
	// or its answer could not be read.
	Send(ctx context.Context, msg Message) (Response, error)

	// Name identifies the provider in logs and client-facing errors.
	Name() string
}

// Message is a single outbound email.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

// Validate checks that the message can be submitted at all.
func (m Message) Validate() error {
	switch {
	case strings.TrimSpace(m.From) == "":
		return fmt.Errorf("%w: from is required", ErrInvalidMessage)
	case strings.TrimSpace(m.To) == "":
		return fmt.Errorf("%w: to is required", ErrInvalidMessage)
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	case m.HTML == "" && m.Text == "":
		return fmt.Errorf("%w: html or text body is required", ErrInvalidMessage)
	}
	return nil
}

// Response is the provider's raw answer.
type Response struct {
	StatusCode int
	Body       string
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
