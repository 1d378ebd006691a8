// Package configurator holds one in-progress vehicle selection and derives
// the preview image, quote payload and share link from it.
//
// A Configurator belongs to one user session and is not safe for concurrent
// use.
package configurator

import (
	"errors"
	"slices"

	"github.com/alanquantic/voltdrive/svc/catalog"
)

var ErrNoSignal = errors.New("configurator: no quote signal configured")

// Option configures a Configurator.
type Option func(*Configurator)

// WithSignal sets the side channel RequestQuote publishes on.
func WithSignal(s *QuoteSignal) Option {
	return func(c *Configurator) {
		c.signal = s
	}
}

// WithModel selects the initial model. Unknown keys fall back to the first model.
func WithModel(key string) Option {
	return func(c *Configurator) {
		c.model = c.reg.ModelOrFirst(key)
	}
}

// Configurator is the selection state for one session.
type Configurator struct {
	reg    *catalog.Registry
	signal *QuoteSignal

	model       *catalog.Model
	version     string
	color       string
	seat        string
	roof        string
	packages    []string
	accessories []string
}

// New returns a Configurator on the first model of reg, or of the embedded
// catalog when reg is nil.
func New(reg *catalog.Registry, opts ...Option) *Configurator {
	if reg == nil {
		reg = catalog.Default()
	}
	c := &Configurator{reg: reg, model: reg.First()}
	for _, opt := range opts {
		opt(c)
	}
	c.version = c.model.FirstVariant()
	c.roof = catalog.RoofStandard
	return c
}

// Registry returns the catalog the configurator reads from.
func (c *Configurator) Registry() *catalog.Registry { return c.reg }

// Model returns the active model.
func (c *Configurator) Model() *catalog.Model { return c.model }

func (c *Configurator) Version() string { return c.version }
func (c *Configurator) Color() string { return c.color }
func (c *Configurator) Seat() string { return c.seat }
func (c *Configurator) Roof() string { return c.roof }

// Packages returns the selected packages in selection order.
func (c *Configurator) Packages() []string { return slices.Clone(c.packages) }

// Accessories returns the selected accessory SKUs in selection order.
func (c *Configurator) Accessories() []string { return slices.Clone(c.accessories) }

// SetModel switches the active model.
//
// The version resets to the model's first variant. Color and seat are kept
// only when the new model offers them. Accessories that do not fit and
// packages the model does not offer are dropped, and the roof returns to
// standard when the model has no solar roof. Selecting the active model is a
// no-op. An unknown key returns catalog.ErrUnknownModel and changes nothing.
func (c *Configurator) SetModel(key string) error {
	m, err := c.reg.Lookup(key)
	if err != nil {
		return err
	}
	if m == c.model {
		return nil
	}

	c.model = m
	c.version = m.FirstVariant()

	if s, ok := m.Color(c.color); ok {
		c.color = s.Name
	} else {
		c.color = ""
	}
	if s, ok := m.Seat(c.seat); ok {
		c.seat = s.Name
	} else {
		c.seat = ""
	}
	if !m.SolarRoof {
		c.roof = catalog.RoofStandard
	}

	c.packages = slices.DeleteFunc(c.packages, func(p string) bool { return !m.OffersPackage(p) })
	c.accessories = slices.DeleteFunc(c.accessories, func(sku string) bool { return !m.Fits(sku) })
	return nil
}

// SetVersion, SetColor, SetSeat and SetRoof store the value as given. The
// caller offers only valid options; nothing is checked here.
func (c *Configurator) SetVersion(name string) { c.version = name }
func (c *Configurator) SetColor(name string) { c.color = name }
func (c *Configurator) SetSeat(name string) { c.seat = name }
func (c *Configurator) SetRoof(value string) { c.roof = value }

// TogglePackage adds name when absent and removes it when present.
// It reports whether the package is selected afterwards.
func (c *Configurator) TogglePackage(name string) bool {
	return toggle(&c.packages, name)
}

// ToggleAccessory adds sku when absent and removes it when present.
// It reports whether the accessory is selected afterwards.
func (c *Configurator) ToggleAccessory(sku string) bool {
	return toggle(&c.accessories, sku)
}

func toggle(set *[]string, v string) bool {
	if i := slices.Index(*set, v); i >= 0 {
		*set = slices.Delete(*set, i, i+1)
		return false
	}
	*set = append(*set, v)
	return true
}

// Preview resolves the image for the current color and seat.
func (c *Configurator) Preview() catalog.Preview {
	return c.model.ResolvePreview(c.color, c.seat)
}
