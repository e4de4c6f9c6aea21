// Package timeofday converts between free-text "HH:MM" values and minutes since midnight.
package timeofday

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a point in a day expressed as minutes since midnight.
type TimeOfDay int

// Minutes returns the value as a plain int.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// String renders the value as HH:MM.
func (t TimeOfDay) String() string {
	return FormatMinutes(int(t))
}

// Parse reads an "hour:minute[...]" string. ok is false when the text is empty,
// has no colon-delimited hour and minute, or either part is not an integer.
// Hour and minute ranges are not checked.
func Parse(text string) (TimeOfDay, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	parts := strings.Split(text, ":")
	if len(parts) < 2 {
		return 0, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}

	return TimeOfDay(hour*60 + minute), true
}

// ParsePtr is Parse for optional fields: nil means absent.
func ParsePtr(text string) *TimeOfDay {
	t, ok := Parse(text)
	if !ok {
		return nil
	}
	return &t
}

// ParseNullable parses a nullable column value.
func ParseNullable(text *string) *TimeOfDay {
	if text == nil {
		return nil
	}
	return ParsePtr(*text)
}

// FormatMinutes renders a minute count as zero-padded HH:MM.
func FormatMinutes(totalMinutes int) string {
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

// Normalize canonicalises a time string to HH:MM, or returns "" when it cannot be parsed.
func Normalize(text string) string {
	t, ok := Parse(text)
	if !ok {
		return ""
	}
	return FormatMinutes(int(t))
}

// NormalizeNullable is Normalize for nullable values; blank results become nil.
func NormalizeNullable(text *string) *string {
	if text == nil {
		return nil
	}
	n := Normalize(*text)
	if n == "" {
		return nil
	}
	return &n
}

// Format renders an optional value, returning nil when absent.
func Format(t *TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

// Ptr returns a pointer to t.
func Ptr(t TimeOfDay) *TimeOfDay {
	return &t
}
