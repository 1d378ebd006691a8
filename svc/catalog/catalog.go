// Package catalog is the read-only registry of vehicle models, their option
// sets and the rules that pick a preview image for a color and seat choice.
//
// The registry is parsed once from YAML and never mutated afterwards, so a
// *Registry is safe for concurrent use without locking.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/alanquantic/voltdrive/pkg/sanitizer"
)

// Roof options. The solar roof is only offered by models with SolarRoof set.
const (
	RoofStandard = "Estándar"
	RoofSolar    = "Techo solar (+~20% autonomía)"
)

// SolarPackage is the package name reserved for solar-roof models.
const SolarPackage = "Solar"

//go:embed catalog.yaml
var embedded []byte

// Default returns the registry built from the embedded catalog.
// It panics if the embedded data is invalid.
var Default = sync.OnceValue(func() *Registry {
	r, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return r
})

// Swatch is a named option with its display color.
type Swatch struct {
	Name string `yaml:"name" json:"name"`
	Hex  string `yaml:"hex" json:"hex"`
}

// Accessory is a catalog add-on. Compat lists the model keys it fits.
type Accessory struct {
	SKU      string   `yaml:"sku" json:"sku"`
	Name     string   `yaml:"name" json:"name"`
	Category string   `yaml:"category" json:"category"`
	Compat   []string `yaml:"compat" json:"compat"`
}

// Fits reports whether the accessory is compatible with the model key.
func (a Accessory) Fits(modelKey string) bool {
	return slices.Contains(a.Compat, modelKey)
}

type palette struct {
	Fallback string   `yaml:"fallback"`
	Colors   []Swatch `yaml:"colors"`
}

func (p palette) lookup(name string) (Swatch, bool) {
	for _, s := range p.Colors {
		if sanitizer.Equal(s.Name, name) {
			return s, true
		}
	}
	return Swatch{}, false
}

type document struct {
	Palette     palette     `yaml:"palette"`
	SeatPalette palette     `yaml:"seat_palette"`
	Accessories []Accessory `yaml:"accessories"`
	Models      []modelDoc  `yaml:"models"`
}

type modelDoc struct {
	Key       string                 `yaml:"key"`
	Name      string                 `yaml:"name"`
	Tagline   string                 `yaml:"tagline"`
	Hero      string                 `yaml:"hero"`
	Gallery   []string               `yaml:"gallery"`
	Colors    []string               `yaml:"colors"`
	Seats     []string               `yaml:"seats"`
	SolarRoof bool                   `yaml:"solar_roof"`
	Packages  []string               `yaml:"packages"`
	Images    map[string]ColorImages `yaml:"images"`
	Variants  []Variant              `yaml:"variants"`
	Specs     []Spec                 `yaml:"specs"`
}

// Registry is the parsed catalog.
type Registry struct {
	models      []*Model
	byKey       map[string]*Model
	accessories []Accessory
	palette     palette
	seatPalette palette
}

// Parse decodes a YAML catalog and checks its invariants.
// Every failure wraps ErrInvalidCatalog.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("%w: no models", ErrInvalidCatalog)
	}

	r := &Registry{
		byKey:       make(map[string]*Model, len(doc.Models)),
		palette:     doc.Palette,
		seatPalette: doc.SeatPalette,
	}

	for _, md := range doc.Models {
		m, err := buildModel(md, doc.Palette, doc.SeatPalette, r)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byKey[m.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate model %q", ErrInvalidCatalog, m.Key)
		}
		r.byKey[m.Key] = m
		r.models = append(r.models, m)
	}

	skus := make(map[string]struct{}, len(doc.Accessories))
	for _, a := range doc.Accessories {
		if a.SKU == "" || a.Name == "" {
			return nil, fmt.Errorf("%w: accessory without sku or name", ErrInvalidCatalog)
		}
		if _, dup := skus[a.SKU]; dup {
			return nil, fmt.Errorf("%w: duplicate accessory %q", ErrInvalidCatalog, a.SKU)
		}
		skus[a.SKU] = struct{}{}
		for _, key := range a.Compat {
			if _, ok := r.byKey[key]; !ok {
				return nil, fmt.Errorf("%w: accessory %q references unknown model %q", ErrInvalidCatalog, a.SKU, key)
			}
		}
		r.accessories = append(r.accessories, a)
	}

	return r, nil
}

func buildModel(md modelDoc, colors, seats palette, r *Registry) (*Model, error) {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: model %q: %s", ErrInvalidCatalog, md.Key, fmt.Sprintf(format, args...))
	}

	switch {
	case md.Key == "":
		return nil, fmt.Errorf("%w: model without key", ErrInvalidCatalog)
	case md.Name == "":
		return nil, fail("missing name")
	case md.Hero == "":
		return nil, fail("missing hero image")
	case len(md.Variants) == 0:
		return nil, fail("no variants")
	}

	m := &Model{
		Key:       md.Key,
		Name:      md.Name,
		Tagline:   md.Tagline,
		Hero:      md.Hero,
		Gallery:   md.Gallery,
		SolarRoof: md.SolarRoof,
		Packages:  md.Packages,
		Variants:  md.Variants,
		Specs:     md.Specs,
		Images:    make(map[string]ColorImages, len(md.Images)),
		registry:  r,
	}

	for _, name := range md.Colors {
		s, ok := colors.lookup(name)
		if !ok {
			return nil, fail("color %q is not in the palette", name)
		}
		m.Colors = append(m.Colors, s)
	}
	for _, name := range md.Seats {
		s, ok := seats.lookup(name)
		if !ok {
			return nil, fail("seat %q is not in the seat palette", name)
		}
		m.Seats = append(m.Seats, s)
	}

	for color, imgs := range md.Images {
		c, ok := m.Color(color)
		if !ok {
			return nil, fail("image for color %q the model does not offer", color)
		}
		entry := ColorImages{Image: imgs.Image, Seats: make(map[string]string, len(imgs.Seats))}
		for seat, img := range imgs.Seats {
			s, ok := m.Seat(seat)
			if !ok {
				return nil, fail("image for seat %q the model does not offer", seat)
			}
			entry.Seats[s.Name] = img
		}
		m.Images[c.Name] = entry
	}

	if slices.Contains(m.Packages, SolarPackage) && !m.SolarRoof {
		return nil, fail("solar package without solar roof")
	}

	return m, nil
}

// Model returns the model with key.
func (r *Registry) Model(key string) (*Model, bool) {
	m, ok := r.byKey[key]
	return m, ok
}

// Lookup is like Model but returns ErrUnknownModel for a missing key.
func (r *Registry) Lookup(key string) (*Model, error) {
	if m, ok := r.byKey[key]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, key)
}

// ModelOrFirst returns the model with key, or the first model when the key is unknown.
func (r *Registry) ModelOrFirst(key string) *Model {
	if m, ok := r.byKey[key]; ok {
		return m
	}
	return r.First()
}

// ModelByName finds a model by its display name.
func (r *Registry) ModelByName(name string) (*Model, bool) {
	for _, m := range r.models {
		if sanitizer.Equal(m.Name, name) {
			return m, true
		}
	}
	return nil, false
}

// First returns the first model in catalog order.
func (r *Registry) First() *Model {
	return r.models[0]
}

// Models returns all models in catalog order.
func (r *Registry) Models() []*Model {
	return slices.Clone(r.models)
}

// Accessories returns the accessories compatible with modelKey, in catalog
// order. An empty key returns the whole list.
func (r *Registry) Accessories(modelKey string) []Accessory {
	out := make([]Accessory, 0, len(r.accessories))
	for _, a := range r.accessories {
		if modelKey == "" || a.Fits(modelKey) {
			out = append(out, a)
		}
	}
	return out
}

// Accessory returns the accessory with sku.
func (r *Registry) Accessory(sku string) (Accessory, bool) {
	for _, a := range r.accessories {
		if a.SKU == sku {
			return a, true
		}
	}
	return Accessory{}, false
}

// ColorHex returns the display color of a body color name, or the palette
// fallback.
func (r *Registry) ColorHex(name string) string {
	if c, ok := r.palette.lookup(name); ok {
		return c.Hex
	}
	return r.palette.Fallback
}

// SeatHex returns the display color of a seat name, or the seat palette fallback.
func (r *Registry) SeatHex(name string) string {
	if s, ok := r.seatPalette.lookup(name); ok {
		return s.Hex
	}
	return r.seatPalette.Fallback
}
