package dispatch

import (
	"fmt"
	"strings"
	"time"
)

// Datetime filter arguments get their values normalized to the
// "YYYY-MM-DD HH:MM:SS" form the remote API expects, so callers can pass
// bare dates, ISO-8601 timestamps, or range shorthands.

var datetimeFilterArgs = map[string]bool{
	"created":    true,
	"updated":    true,
	"start_time": true,
	"end_time":   true,
}

func isDatetimeFilterArg(name string) bool {
	return datetimeFilterArgs[name]
}

// comparison operators a datetime filter value may be prefixed with.
var datetimeOperators = map[string]bool{
	"equals":    true,
	"notequals": true,
	"gte":       true,
	"gt":        true,
	"lte":       true,
	"lt":        true,
	"in":        true,
}

// NormalizeDatetimeFilter rewrites a datetime filter expression into the
// remote API's canonical form:
//
//   - "range:2024-01-01..2024-01-31" becomes an inclusive
//     "in:2024-01-01 00:00:00,2024-01-31 23:59:59" pair
//   - bare dates gain "00:00:00" (or "23:59:59" under lte/lt, so the whole
//     day is covered)
//   - ISO-8601 timestamps (T separator, Z or offset) convert to UTC
//     "YYYY-MM-DD HH:MM:SS"; fractional seconds are dropped
func NormalizeDatetimeFilter(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if rest, ok := strings.CutPrefix(value, "range:"); ok {
		lower, upper, found := strings.Cut(rest, "..")
		if !found {
			return "", fmt.Errorf("range filter must look like 'range:lower..upper', got %q", value)
		}
		lowerNorm, err := normalizeDatetime(strings.TrimSpace(lower), false)
		if err != nil {
			return "", err
		}
		upperNorm, err := normalizeDatetime(strings.TrimSpace(upper), true)
		if err != nil {
			return "", err
		}
		return "in:" + lowerNorm + "," + upperNorm, nil
	}

	operator, operand, found := strings.Cut(value, ":")
	if !found || !datetimeOperators[operator] {
		normalized, err := normalizeDatetime(value, false)
		if err != nil {
			return "", err
		}
		return normalized, nil
	}

	if operator == "in" {
		parts := strings.Split(operand, ",")
		for i, part := range parts {
			normalized, err := normalizeDatetime(strings.TrimSpace(part), i == len(parts)-1)
			if err != nil {
				return "", err
			}
			parts[i] = normalized
		}
		return "in:" + strings.Join(parts, ","), nil
	}

	upperBound := operator == "lte" || operator == "lt"
	normalized, err := normalizeDatetime(strings.TrimSpace(operand), upperBound)
	if err != nil {
		return "", err
	}
	return operator + ":" + normalized, nil
}

// normalizeDatetime converts one datetime literal to "YYYY-MM-DD HH:MM:SS".
// upperBound controls which time of day fills in for date-only values.
func normalizeDatetime(value string, upperBound bool) (string, error) {
	const canonical = "2006-01-02 15:04:05"

	if t, err := time.Parse("2006-01-02", value); err == nil {
		if upperBound {
			t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
		return t.Format(canonical), nil
	}

	// ISO-8601 with T separator, optionally zoned.
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(canonical), nil
		}
	}

	// Already space-separated, possibly with fractional seconds to drop.
	for _, layout := range []string{
		canonical,
		"2006-01-02 15:04:05.999999999",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(canonical), nil
		}
	}

	return "", fmt.Errorf("unrecognized datetime %q (expected YYYY-MM-DD or ISO-8601)", value)
}
