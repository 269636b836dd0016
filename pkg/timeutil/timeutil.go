// Package timeutil converts between clock-time strings and integer minute
// offsets within a day. All boundary comparisons in the scheduling engine are
// done on these offsets, which gives a total ordering over 0-1439.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"

	MinutesPerDay = 24 * 60
)

// MinutesOfDay converts "H:MM", "HH:MM" or "HH:MM:SS" to minutes since
// midnight. Malformed input yields 0 (midnight); request-level validation is
// expected to reject bad clock strings before they reach scheduling logic.
func MinutesOfDay(clock string) int {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0
	}

	return hours*60 + minutes
}

// ClockOfMinutes renders minutes since midnight as "HH:MM".
func ClockOfMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsClock reports whether s is a well-formed "HH:MM" clock string.
func IsClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ParseDate parses an ISO calendar date ("2026-02-14").
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// Weekday returns the day of week for an ISO date, 0=Sunday through
// 6=Saturday, or an error for a malformed date.
func Weekday(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return int(d.Weekday()), nil
}

// DateInRange reports whether date falls within [start, end], both ends
// inclusive. ISO dates compare correctly as strings, which keeps blackout
// checks free of timezone concerns.
func DateInRange(date, start, end string) bool {
	return date >= start && date <= end
}
