package intake

import "fmt"

// FallbackSenderDomain is used in the default sender identity when no
// provider domain is configured.
const FallbackSenderDomain = "mailer.ceosnew.media"

// Config holds the intake settings read from the environment.
type Config struct {
	// To receives the vendor notification.
	To string `env:"MAILGUN_TO" envDefault:"contacto@voltdrive.mx"`
	// From is the sender identity. Empty means DefaultFrom of the provider domain.
	From string `env:"MAILGUN_FROM"`
	// SiteBaseURL prefixes asset links in the acknowledgement email.
	SiteBaseURL string `env:"SITE_BASE_URL" envDefault:"https://voltdrive.vercel.app"`
	// Timezone of the timestamp in the vendor notification.
	Timezone string `env:"QUOTE_TIMEZONE" envDefault:"America/Mexico_City"`
	// StrictValidation also checks the email shape and the unit count.
	StrictValidation bool `env:"QUOTE_STRICT_VALIDATION" envDefault:"true"`
}

// DefaultFrom returns the sender identity for domain.
func DefaultFrom(domain string) string {
	if domain == "" {
		domain = FallbackSenderDomain
	}
	return fmt.Sprintf("Cotizador Volt Drive <cotizador@%s>", domain)
}
