package quoteform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alanquantic/voltdrive/svc/quote"
)

// QuotePath is the intake endpoint path.
const QuotePath = "/api/quote"

// Submitter delivers a quote request. A nil error means the intake accepted it.
type Submitter interface {
	Submit(ctx context.Context, req quote.Request) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req quote.Request) error

func (f SubmitterFunc) Submit(ctx context.Context, req quote.Request) error {
	return f(ctx, req)
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// Client posts quote requests to an intake endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a Client for the service at baseURL. It uses
// http.DefaultClient unless WithHTTPClient says otherwise; the context passed
// to Submit is the only deadline.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + QuotePath,
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Submit sends req as JSON. A non-2xx answer returns *StatusError; transport
// failures wrap ErrRequestFailed.
func (c *Client) Submit(ctx context.Context, req quote.Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: encode request: %w", ErrRequestFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var env envelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&env)
	return &StatusError{Code: resp.StatusCode, Message: env.Error}
}
