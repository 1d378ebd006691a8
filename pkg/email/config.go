package email

import (
	"fmt"
	"net/http"
	"time"
)

// Provider selects the Sender built by NewSender.
type Provider string

const (
	ProviderMailgun  Provider = "mailgun"
	ProviderPostmark Provider = "postmark"
	ProviderDev      Provider = "dev"
)

// Config holds provider settings read from the environment.
// Credentials are optional here so the service can boot without them.
type Config struct {
	Provider             Provider      `env:"EMAIL_PROVIDER" envDefault:"mailgun"`
	MailgunDomain        string        `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey        string        `env:"MAILGUN_API_KEY"`
	MailgunBaseURL       string        `env:"MAILGUN_BASE_URL" envDefault:"https://api.mailgun.net"`
	PostmarkServerToken  string        `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string        `env:"POSTMARK_ACCOUNT_TOKEN"`
	DevDir               string        `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
	Timeout              time.Duration `env:"EMAIL_HTTP_TIMEOUT" envDefault:"0s"`
}

// NewSender builds the Sender for cfg.Provider. It returns ErrNotConfigured
// when the provider's credentials are missing and ErrInvalidConfig for an
// unknown provider.
func NewSender(cfg Config) (Sender, error) {
	switch cfg.Provider {
	case ProviderMailgun, "":
		var opts []MailgunOption
		if cfg.MailgunBaseURL != "" {
			opts = append(opts, WithMailgunBaseURL(cfg.MailgunBaseURL))
		}
		if cfg.Timeout > 0 {
			opts = append(opts, WithMailgunHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		}
		c, err := NewMailgunClient(cfg.MailgunDomain, cfg.MailgunAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderPostmark:
		s, err := NewPostmarkSender(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderDev:
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
