// Package dates converts between the DD/MM/YYYY dates typed in the
// editing UI, canonical ISO YYYY-MM-DD strings, and calendar-day values
// used for filter comparisons. Every function here is total: bad input
// yields an empty string or ok=false, never an error or a panic.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	displayRe   = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2}|\d{4})$`)
	canonicalRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// Mask strips everything but digits from raw, truncates to 8 digits and
// inserts separators to render a partial or complete DD/MM/YYYY string.
// Pure display formatting; no validation happens here.
func Mask(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 8 {
				break
			}
		}
	}
	digits := b.String()
	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 4:
		return digits[:2] + "/" + digits[2:]
	default:
		return digits[:2] + "/" + digits[2:4] + "/" + digits[4:]
	}
}

// ToCanonical parses a D/M/Y-shaped display string (separators "/", "."
// or "-", 2- or 4-digit year) into canonical YYYY-MM-DD, or "" when the
// shape or the month/day bounds are off. Two-digit years expand with the
// historical cutoff: >= 70 means 19xx, below it 20xx. Day-of-month
// overflow against the actual month length is deliberately not checked,
// so "31/02/2024" canonicalizes; downstream parsing treats such dates as
// unparseable and the permissive filter policy takes over.
func ToCanonical(display string) string {
	m := displayRe.FindStringSubmatch(strings.TrimSpace(display))
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := m[3]
	if len(year) == 2 {
		if n, _ := strconv.Atoi(year); n >= 70 {
			year = "19" + year
		} else {
			year = "20" + year
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%s-%02d-%02d", year, month, day)
}

// ToDisplay maps a canonical YYYY-MM-DD string back to DD/MM/YYYY, or ""
// when the input does not have the canonical shape.
func ToDisplay(canonical string) string {
	m := canonicalRe.FindStringSubmatch(canonical)
	if m == nil {
		return ""
	}
	return m[3] + "/" + m[2] + "/" + m[1]
}

// looseLayouts are tried in order by ParseLoose. Source documents carry
// dates in a handful of shapes; anything else is simply "no date".
var looseLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
}

// ParseLoose attempts to read any of the recognized date shapes and
// returns the local-midnight calendar day. ok is false for empty or
// unparseable input; callers treat that as "no constraint" when
// filtering and as "blank" when formatting.
func ParseLoose(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range looseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return StartOfDay(t), true
		}
	}
	// Last resort: masked display shapes with a 2-digit year.
	if iso := ToCanonical(s); iso != "" {
		if t, err := time.ParseInLocation("2006-01-02", iso, time.Local); err == nil {
			return StartOfDay(t), true
		}
	}
	return time.Time{}, false
}

// StartOfDay strips the time of day, pinning t to local midnight so that
// same-day equality and range inclusion are exact.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Today returns the current calendar day.
func Today() time.Time {
	return StartOfDay(time.Now())
}

// AddDays moves a calendar day forward (or backward) by n days.
func AddDays(day time.Time, n int) time.Time {
	return StartOfDay(day.AddDate(0, 0, n))
}

// MonthBounds returns the first and last calendar day of day's month.
func MonthBounds(day time.Time) (first, last time.Time) {
	first = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.Local)
	last = first.AddDate(0, 1, -1)
	return first, last
}
