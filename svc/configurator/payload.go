package configurator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alanquantic/voltdrive/svc/catalog"
	"github.com/alanquantic/voltdrive/svc/quote"
)

const placeholder = "—"

// QuotePayload builds the configuration sent with a quote request. The model
// is reported by display name. Models without a solar roof always report the
// standard roof.
func (c *Configurator) QuotePayload() quote.Configuration {
	roof := c.roof
	if !c.model.SolarRoof || roof == "" {
		roof = catalog.RoofStandard
	}
	return quote.Configuration{
		Model:               quote.Text(c.model.Name),
		Version:             quote.Text(c.version),
		Color:               quote.Text(c.color),
		Seats:               quote.Text(c.seat),
		Roof:                quote.Text(roof),
		Packages:            c.Packages(),
		SelectedAccessories: c.Accessories(),
	}
}

// Summary returns the one-line "{model} • {color} • {seat}" label.
func (c *Configurator) Summary() string {
	return fmt.Sprintf("%s • %s • %s", c.model.Name, orPlaceholder(c.color), orPlaceholder(c.seat))
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

// ShareURL returns a link that restores model, color and seat:
// {base}#/{model}?model=..&color=..&seats=..
func (c *Configurator) ShareURL(base string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("#/")
	b.WriteString(c.model.Key)
	b.WriteString("?model=")
	b.WriteString(url.QueryEscape(c.model.Key))
	b.WriteString("&color=")
	b.WriteString(url.QueryEscape(c.color))
	b.WriteString("&seats=")
	b.WriteString(url.QueryEscape(c.seat))
	return b.String()
}

// ApplyShare restores a selection from share link parameters. The model is
// applied first; color and seat are taken only when the model offers them.
func (c *Configurator) ApplyShare(values url.Values) error {
	if key := values.Get("model"); key != "" {
		if err := c.SetModel(key); err != nil {
			return err
		}
	}
	if s, ok := c.model.Color(values.Get("color")); ok {
		c.color = s.Name
	}
	if s, ok := c.model.Seat(values.Get("seats")); ok {
		c.seat = s.Name
	}
	return nil
}

// ApplyShareURL parses a link produced by ShareURL and applies it. The route
// segment selects the model when the query does not name one.
func (c *Configurator) ApplyShareURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("configurator: parse share link: %w", err)
	}
	route, query, _ := strings.Cut(strings.TrimPrefix(u.EscapedFragment(), "/"), "?")
	values, err := url.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("configurator: parse share link: %w", err)
	}
	if values.Get("model") == "" && route != "" {
		values.Set("model", route)
	}
	return c.ApplyShare(values)
}
