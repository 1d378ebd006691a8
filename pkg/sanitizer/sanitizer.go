package sanitizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Apply runs value through transforms in order.
func Apply[T any](value T, transforms ...func(T) T) T {
	result := value

	for _, transform := range transforms {
		result = transform(result)
	}

	return result
}

// Compose creates a reusable pipeline from transforms.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T {
		return Apply(value, transforms...)
	}
}

// NFC returns s in Unicode canonical composition form.
func NFC(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// StripControl removes control characters. Newlines and tabs become spaces
// so single-line fields stay single-line.
func StripControl(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CollapseSpaces replaces each run of whitespace with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Clean is the default pipeline for single-line form fields.
var Clean = Compose(NFC, StripControl, CollapseSpaces)

// Equal reports whether a and b are equal after Clean.
func Equal(a, b string) bool {
	return Clean(a) == Clean(b)
}

// CleanAll applies Clean to every element, dropping values that end up empty.
func CleanAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = Clean(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
