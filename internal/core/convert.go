package core

// convert.go turns raw device strings into typed values.
//
// Device exports are written by firmware configured for different locales:
//   - Decimal separators may be ',' or '.'
//   - Percent fields may carry a trailing '%'
//   - Dates are day/month/year, times are 24-hour
//
// ToNumber is the single numeric entry point. Classification, comparison,
// readings and the HTTP layer all call it, so a value that is absent for
// one consumer is absent for every consumer.

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a plain decimal after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Device date and time layouts. Single-digit parts are accepted.
const (
	dateLayout = "2/1/2006"
	timeLayout = "15:4:5"
)

// Number is a normalized numeric value. Valid is false when the source
// value was missing or could not be parsed.
type Number struct {
	Value float64
	Valid bool
}

// Some returns a valid Number.
func Some(v float64) Number {
	return Number{Value: v, Valid: true}
}

// MarshalJSON encodes an absent Number as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number or null.
func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// ToNumber converts a raw device value to a Number.
//
// Surrounding whitespace and one trailing '%' are removed, ',' is read as
// the decimal separator, and the rest must be a plain decimal. Anything
// else (empty, "abc", "1.2.3", "NaN") is returned as absent.
func ToNumber(raw string) Number {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}

	s = strings.ReplaceAll(s, ",", ".")

	if !numericRegex.MatchString(s) {
		return Number{}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return Number{}
	}
	return Some(v)
}

// ParseMeasuredAt parses a device date (day/month/year) and time
// (hour:minute:second, 24-hour) into a timestamp.
func ParseMeasuredAt(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(dateLayout+" "+timeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
