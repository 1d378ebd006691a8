package catalog

import (
	"slices"

	"github.com/alanquantic/voltdrive/pkg/sanitizer"
)

// Variant is a version of a model with its highlight bullets.
type Variant struct {
	Name    string   `yaml:"name" json:"name"`
	Details []string `yaml:"details" json:"details"`
}

// Spec is one row of a model's specification table.
type Spec struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// ColorImages holds the dedicated images for one body color: the color image
// and the images per seat color.
type ColorImages struct {
	Image string            `yaml:"image" json:"image,omitempty"`
	Seats map[string]string `yaml:"seats" json:"seats,omitempty"`
}

// Model is one vehicle product line with its option sets.
type Model struct {
	Key       string                 `json:"key"`
	Name      string                 `json:"name"`
	Tagline   string                 `json:"tagline"`
	Hero      string                 `json:"hero"`
	Gallery   []string               `json:"gallery"`
	Colors    []Swatch               `json:"colors"`
	Seats     []Swatch               `json:"seats"`
	SolarRoof bool                   `json:"solarRoof"`
	Packages  []string               `json:"packages"`
	Images    map[string]ColorImages `json:"images"`
	Variants  []Variant              `json:"variants"`
	Specs     []Spec                 `json:"specs"`

	registry *Registry
}

// Color returns the model's color option matching name.
// Names are compared after Unicode and whitespace normalisation.
func (m *Model) Color(name string) (Swatch, bool) {
	return findSwatch(m.Colors, name)
}

// Seat returns the model's seat option matching name.
func (m *Model) Seat(name string) (Swatch, bool) {
	return findSwatch(m.Seats, name)
}

func findSwatch(list []Swatch, name string) (Swatch, bool) {
	if name == "" {
		return Swatch{}, false
	}
	for _, s := range list {
		if sanitizer.Equal(s.Name, name) {
			return s, true
		}
	}
	return Swatch{}, false
}

// FirstVariant returns the name of the default version.
func (m *Model) FirstVariant() string {
	if len(m.Variants) == 0 {
		return ""
	}
	return m.Variants[0].Name
}

// Variant returns the version matching name.
func (m *Model) Variant(name string) (Variant, bool) {
	for _, v := range m.Variants {
		if sanitizer.Equal(v.Name, name) {
			return v, true
		}
	}
	return Variant{}, false
}

// OffersPackage reports whether name is one of the model's packages.
func (m *Model) OffersPackage(name string) bool {
	return slices.ContainsFunc(m.Packages, func(p string) bool {
		return sanitizer.Equal(p, name)
	})
}

// Roofs returns the roof options available on the model.
func (m *Model) Roofs() []string {
	if m.SolarRoof {
		return []string{RoofStandard, RoofSolar}
	}
	return []string{RoofStandard}
}

// Spec returns the value of the spec row key, or "".
func (m *Model) Spec(key string) string {
	for _, s := range m.Specs {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// Accessories returns the accessories compatible with the model.
func (m *Model) Accessories() []Accessory {
	if m.registry == nil {
		return nil
	}
	return m.registry.Accessories(m.Key)
}

// Fits reports whether the accessory sku is compatible with the model.
func (m *Model) Fits(sku string) bool {
	if m.registry == nil {
		return false
	}
	a, ok := m.registry.Accessory(sku)
	return ok && a.Fits(m.Key)
}
