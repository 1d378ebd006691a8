package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// emailShapeRegex accepts local@domain.tld with no whitespace and a dot after
// the @. It rejects obviously malformed addresses and nothing more.
var emailShapeRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Required validates that value is not blank after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
			Code:    "required",
			Cause:   ErrFieldRequired,
		},
	}
}

// EmailShape validates that value looks like local@domain.tld.
func EmailShape(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return emailShapeRegex.MatchString(strings.TrimSpace(value))
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
			Code:    "format",
			Cause:   ErrInvalidFormat,
		},
	}
}

// PositiveInt validates that value is the decimal text of an integer >= 1.
func PositiveInt(field, value string) Rule {
	return Rule{
		Check: func() bool {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			return err == nil && n >= 1
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a positive whole number",
			Code:    "format",
			Cause:   ErrInvalidFormat,
		},
	}
}

// OneOf validates that value is one of allowed. Comparison is exact.
func OneOf(field, value string, allowed ...string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
			Code:    "one_of",
			Cause:   ErrInvalidValue,
		},
	}
}

// MaxLen validates that value has at most max runes.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return len([]rune(value)) <= max
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
			Code:    "max_length",
			Cause:   ErrInvalidValue,
		},
	}
}

// When applies rule only if cond holds.
func When(cond bool, rule Rule) Rule {
	check := rule.Check
	rule.Check = func() bool {
		return !cond || check()
	}
	return rule
}
