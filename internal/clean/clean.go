// Package clean contains the field normalizers for the catalog export. The
// export encodes numbers as display text ("₹1,099", "15%", "4,363") and uses
// empty cells or "nan" for missing values; these helpers turn that text into
// typed values under one explicit policy.
package clean

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Policy decides what happens to a numeric cell that carries no value at all
// (empty or "nan"). Lenient coerces it to zero; Strict rejects the row.
// One run applies one policy to every numeric field.
//
// A present-but-garbage value ("abc", "1.2.3") is rejected under both
// policies: silently zeroing data that was supposed to mean something hides
// corruption.
type Policy int

const (
	Lenient Policy = iota
	Strict
)

// ParsePolicy maps a config string to a Policy. Unknown values fall back to
// Lenient so a run can still start with defaults.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return Strict
	}
	return Lenient
}

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// ValidationError reports one cell that could not be coerced under the active
// policy. It is recoverable: the caller excludes the row and keeps going.
type ValidationError struct {
	Field  string
	Raw    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q %s", e.Field, e.Raw, e.Reason)
}

var (
	nonDecimalRe = regexp.MustCompile(`[^\d.]`)
	nonDigitRe   = regexp.MustCompile(`[^\d]`)
)

// missing reports whether the cell carries no value at all.
func missing(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "nan")
}

// Price converts a currency cell like "₹1,099" to its numeric value by
// stripping everything that is not a digit or decimal point.
func Price(field, raw string, policy Policy) (float64, error) {
	if missing(raw) {
		if policy == Strict {
			return 0, &ValidationError{Field: field, Raw: raw, Reason: "missing value"}
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(nonDecimalRe.ReplaceAllString(raw, ""), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Raw: raw, Reason: "not a number"}
	}
	return v, nil
}

// Percent converts a percentage cell like "15%" to an integer in [0,100].
func Percent(field, raw string, policy Policy) (int, error) {
	v, err := integer(field, raw, policy)
	if err != nil {
		return 0, err
	}
	if v > 100 {
		return 0, &ValidationError{Field: field, Raw: raw, Reason: "outside 0-100"}
	}
	return v, nil
}

// Count converts a cardinal-count cell like "4,363" to an integer.
func Count(field, raw string, policy Policy) (int, error) {
	return integer(field, raw, policy)
}

func integer(field, raw string, policy Policy) (int, error) {
	if missing(raw) {
		if policy == Strict {
			return 0, &ValidationError{Field: field, Raw: raw, Reason: "missing value"}
		}
		return 0, nil
	}
	v, err := strconv.Atoi(nonDigitRe.ReplaceAllString(raw, ""))
	if err != nil {
		return 0, &ValidationError{Field: field, Raw: raw, Reason: "not a number"}
	}
	return v, nil
}

// Rating converts a rating cell to its numeric value. Unlike the other
// normalizers it never errors: "unknown" is a valid outcome for a rating,
// distinct from zero, so missing, unparseable ("4.5.3") and out-of-range
// values all come back as nil.
func Rating(raw string) *float64 {
	if missing(raw) {
		return nil
	}
	s := nonDecimalRe.ReplaceAllString(raw, "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if v < 0 || v > 5 {
		return nil
	}
	return &v
}
