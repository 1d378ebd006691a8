// Package quoteform is the client side of a quote request: lead validation,
// the quote dialog lifecycle, the intake HTTP client and status toasts.
package quoteform

import (
	"github.com/alanquantic/voltdrive/pkg/validator"
	"github.com/alanquantic/voltdrive/svc/quote"
)

// Field messages shown next to the form inputs.
const (
	MessageRequired     = "Campo requerido"
	MessageInvalidEmail = "Email inválido"
)

// Result is the outcome of Validate. FieldErrors maps field name to reason.
type Result struct {
	Valid       bool
	FieldErrors map[string]string
}

// Validate checks the fields the form requires before submission: name,
// phone and city must not be blank and email must look like local@domain.tld.
// Type, units and country carry defaults and are not checked.
func Validate(lead quote.Lead) Result {
	email := lead.Email.String()

	err := validator.Apply(
		required(quote.FieldName, lead.Name.String()),
		required(quote.FieldEmail, email),
		validator.When(email != "", emailShape(email)),
		required(quote.FieldPhone, lead.Phone.String()),
		required(quote.FieldCity, lead.City.String()),
	)
	if err == nil {
		return Result{Valid: true, FieldErrors: map[string]string{}}
	}
	return Result{FieldErrors: validator.ExtractValidationErrors(err).First()}
}

func required(field, value string) validator.Rule {
	r := validator.Required(field, value)
	r.Error.Message = MessageRequired
	return r
}

func emailShape(value string) validator.Rule {
	r := validator.EmailShape(quote.FieldEmail, value)
	r.Error.Message = MessageInvalidEmail
	return r
}
