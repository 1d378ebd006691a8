// Package quote defines the quote request exchanged between the configurator
// client and the intake endpoint.
package quote

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Text is a string field that accepts any JSON scalar.
//
// Decoding follows the loose coercion browsers apply to form values: strings
// are kept, numbers become their decimal text, true becomes "true", while
// null, false and 0 decode to "" and therefore count as blank. Arrays and
// objects keep their compact JSON text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 'n', 'f':
		*t = ""
	case 't':
		*t = "true"
	case '[', '{':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = Text(buf.String())
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		if f == 0 {
			*t = ""
			return nil
		}
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// String returns the value trimmed of surrounding whitespace.
func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// Blank reports whether the value is empty after trimming.
func (t Text) Blank() bool {
	return t.String() == ""
}

// Or returns the trimmed value, or fallback when blank.
func (t Text) Or(fallback string) string {
	if t.Blank() {
		return fallback
	}
	return t.String()
}

// Intent is the kind of deal the customer is asking for.
type Intent string

const (
	IntentPurchase Intent = "Compra"
	IntentRental   Intent = "Renta"
	IntentLeasing  Intent = "Leasing"
)

// Intents lists the intents offered by the quote form, in display order.
var Intents = []Intent{IntentPurchase, IntentRental, IntentLeasing}

// Countries lists the supported countries, in display order.
var Countries = []string{"México", "Panamá", "Costa Rica"}

const (
	DefaultIntent  = IntentPurchase
	DefaultUnits   = "1"
	DefaultCountry = "México"
)

// Field names of a Lead in canonical order.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldType    = "type"
	FieldUnits   = "units"
	FieldCity    = "city"
	FieldCountry = "country"
)

// RequiredFields is the canonical order used when reporting missing fields.
var RequiredFields = []string{FieldName, FieldEmail, FieldPhone, FieldType, FieldUnits, FieldCity, FieldCountry}

// Lead is the prospective customer's contact and intent data.
type Lead struct {
	Name    Text `json:"name"`
	Email   Text `json:"email"`
	Phone   Text `json:"phone"`
	Type    Text `json:"type"`
	Units   Text `json:"units"`
	City    Text `json:"city"`
	Country Text `json:"country"`
}

// NewLead returns an empty lead carrying the form defaults.
func NewLead() Lead {
	return Lead{
		Type:    Text(DefaultIntent),
		Units:   DefaultUnits,
		Country: DefaultCountry,
	}
}

// Field returns the value of the named field, or "" for an unknown name.
func (l Lead) Field(name string) Text {
	switch name {
	case FieldName:
		return l.Name
	case FieldEmail:
		return l.Email
	case FieldPhone:
		return l.Phone
	case FieldType:
		return l.Type
	case FieldUnits:
		return l.Units
	case FieldCity:
		return l.City
	case FieldCountry:
		return l.Country
	}
	return ""
}

// Set assigns the named field. It reports false for an unknown name.
func (l *Lead) Set(name, value string) bool {
	v := Text(value)
	switch name {
	case FieldName:
		l.Name = v
	case FieldEmail:
		l.Email = v
	case FieldPhone:
		l.Phone = v
	case FieldType:
		l.Type = v
	case FieldUnits:
		l.Units = v
	case FieldCity:
		l.City = v
	case FieldCountry:
		l.Country = v
	default:
		return false
	}
	return true
}

// Configuration is the vehicle selection attached to a quote.
type Configuration struct {
	Model               Text     `json:"model"`
	Version             Text     `json:"version"`
	Color               Text     `json:"color"`
	Seats               Text     `json:"seats"`
	Roof                Text     `json:"roof"`
	Packages            []string `json:"packages"`
	SelectedAccessories []string `json:"selectedAccessories"`
}

// Request is the body of POST /api/quote. Either part may be absent.
type Request struct {
	Customer      Lead          `json:"customer"`
	Configuration Configuration `json:"configuration"`
}
