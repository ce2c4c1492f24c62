// Package validation provides the per-field format checks shared by the
// cleaning steps and the quality scorer. Both sides must agree on what
// counts as a valid email, name, or date, otherwise a cleaned table could
// still score below 100 on formatting.
package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// CanonicalDateLayout is the single normalized date representation all
// valid dates are converted to, regardless of source format.
const CanonicalDateLayout = "2006-01-02"

// DateLayouts lists the accepted input date shapes: ISO, US slash format,
// European dash format, and a datetime variant for login timestamps.
// Single-digit day and month components are accepted for the non-ISO forms.
var DateLayouts = []string{
	CanonicalDateLayout,
	"1/2/2006",
	"2-1-2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

var validate = validator.New()

var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s'.-]*$`)

// ValidEmail reports whether the string is syntactically valid email text.
func ValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return validate.Var(email, "email") == nil
}

// ValidName reports whether the string looks like a person's name: letters
// plus the usual separators, nothing else.
func ValidName(name string) bool {
	return name != "" && namePattern.MatchString(name)
}

// ParseDate parses a date string against the accepted layouts, in order.
func ParseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidDate reports whether the string parses as a date in any accepted
// layout.
func ValidDate(value string) bool {
	_, ok := ParseDate(value)
	return ok
}
