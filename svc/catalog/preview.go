package catalog

// PreviewSource tells which rule produced a preview image.
type PreviewSource string

const (
	SourceCombination PreviewSource = "combination"
	SourceColor       PreviewSource = "color"
	SourceHero        PreviewSource = "hero"
)

// Preview is the resolved image for a color and seat selection.
//
// Overlay is set only when no dedicated image exists and a color is selected;
// OverlayColor is then the color's display value. SeatTint is the display
// value of the selected seat, used for the seat band under the image.
type Preview struct {
	Image        string        `json:"image"`
	Source       PreviewSource `json:"source"`
	Overlay      bool          `json:"overlay"`
	OverlayColor string        `json:"overlayColor,omitempty"`
	SeatTint     string        `json:"seatTint"`
}

// ResolvePreview picks the preview image for color and seat: the
// combination image, else the color image, else the hero image.
func (m *Model) ResolvePreview(color, seat string) Preview {
	p := Preview{
		Image:    m.Hero,
		Source:   SourceHero,
		SeatTint: m.seatHex(seat),
	}

	c, hasColor := m.Color(color)
	if hasColor {
		imgs := m.Images[c.Name]
		if s, ok := m.Seat(seat); ok && imgs.Seats[s.Name] != "" {
			p.Image, p.Source = imgs.Seats[s.Name], SourceCombination
			return p
		}
		if imgs.Image != "" {
			p.Image, p.Source = imgs.Image, SourceColor
			return p
		}
	}

	if color != "" {
		p.Overlay = true
		p.OverlayColor = m.colorHex(color)
	}
	return p
}

func (m *Model) colorHex(name string) string {
	if m.registry != nil {
		return m.registry.ColorHex(name)
	}
	if c, ok := m.Color(name); ok {
		return c.Hex
	}
	return ""
}

func (m *Model) seatHex(name string) string {
	if m.registry != nil {
		return m.registry.SeatHex(name)
	}
	if s, ok := m.Seat(name); ok {
		return s.Hex
	}
	return ""
}
