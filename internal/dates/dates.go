// Package dates parses tracked-date cells and does calendar-day arithmetic.
//
// All dates are naive calendar dates represented as UTC midnight, so the
// difference between two of them is always a whole number of days.
package dates

import (
	"strings"
	"time"
)

// DefaultLayout is DD-MM-YYYY, e.g. "31-12-2025". Single-digit days and
// months ("1-2-2025") are accepted too.
const DefaultLayout = "02-01-2006"

// unpadded relaxes zero-padded day and month elements to their unpadded forms,
// which match one or two digits.
var unpadded = strings.NewReplacer("02", "2", "01", "1")

const day = 24 * time.Hour

// Parse reads raw using layout. Empty or non-matching values return nil
// (missing) instead of an error so one bad cell never aborts a table.
func Parse(raw, layout string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if layout == "" {
		layout = DefaultLayout
	}

	parsed, err := time.Parse(layout, raw)
	if err != nil {
		relaxed := unpadded.Replace(layout)
		if relaxed == layout {
			return nil
		}
		if parsed, err = time.Parse(relaxed, raw); err != nil {
			return nil
		}
	}

	d := dateOnly(parsed)
	return &d
}

// ParseColumn parses every value and counts the non-empty cells that failed.
func ParseColumn(values []string, layout string) ([]*time.Time, int) {
	parsed := make([]*time.Time, len(values))
	unparsed := 0
	for i, v := range values {
		parsed[i] = Parse(v, layout)
		if parsed[i] == nil && strings.TrimSpace(v) != "" {
			unparsed++
		}
	}
	return parsed, unparsed
}

// Today truncates a wall-clock instant to its calendar date in now's own
// location, dropping the time of day.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns to minus from in whole calendar days.
func DaysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)) / day)
}

// Format renders a date in layout, or "" for a missing date.
func Format(d *time.Time, layout string) string {
	if d == nil {
		return ""
	}
	if layout == "" {
		layout = DefaultLayout
	}
	return d.Format(layout)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
