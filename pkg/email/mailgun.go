package email

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultMailgunBaseURL = "https://api.mailgun.net"
	mailgunPrincipal      = "api"
	maxResponseBody       = 64 << 10
)

// MailgunClient sends through the Mailgun v3 messages endpoint of one domain.
type MailgunClient struct {
	domain  string
	apiKey  string
	baseURL string
	http    *http.Client
}

// MailgunOption configures a MailgunClient.
type MailgunOption func(*MailgunClient)

// WithMailgunBaseURL overrides the API host, e.g. the EU region or a test server.
func WithMailgunBaseURL(u string) MailgunOption {
	return func(c *MailgunClient) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithMailgunHTTPClient replaces http.DefaultClient.
func WithMailgunHTTPClient(hc *http.Client) MailgunOption {
	return func(c *MailgunClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewMailgunClient returns ErrNotConfigured unless both domain and apiKey are set.
func NewMailgunClient(domain, apiKey string, opts ...MailgunOption) (*MailgunClient, error) {
	domain = strings.TrimSpace(domain)
	apiKey = strings.TrimSpace(apiKey)
	if domain == "" || apiKey == "" {
		return nil, fmt.Errorf("%w: MAILGUN_DOMAIN and MAILGUN_API_KEY are required", ErrNotConfigured)
	}

	c := &MailgunClient{
		domain:  domain,
		apiKey:  apiKey,
		baseURL: defaultMailgunBaseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *MailgunClient) Name() string { return "Mailgun" }

// Domain returns the sending domain.
func (c *MailgunClient) Domain() string { return c.domain }

// Send issues one POST {base}/v3/{domain}/messages.
func (c *MailgunClient) Send(ctx context.Context, msg Message) (Response, error) {
	if err := msg.Validate(); err != nil {
		return Response{}, err
	}

	form := url.Values{}
	form.Set("from", msg.From)
	form.Set("to", msg.To)
	form.Set("subject", msg.Subject)
	form.Set("html", msg.HTML)
	form.Set("text", msg.Text)

	endpoint := c.baseURL + "/v3/" + url.PathEscape(c.domain) + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, errors.Join(ErrFailedToSendEmail, err)
	}
	req.SetBasicAuth(mailgunPrincipal, c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.http.Do(req)
	if err != nil {
		return Response{}, errors.Join(ErrFailedToSendEmail, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return Response{StatusCode: res.StatusCode}, errors.Join(ErrFailedToSendEmail, err)
	}
	return Response{StatusCode: res.StatusCode, Body: string(body)}, nil
}
