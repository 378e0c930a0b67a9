// Package expiry classifies tracked dates against a reference day and groups
// the results for display.
package expiry

import (
	"time"

	"github.com/Veraticus/visawatch/internal/dates"
	"github.com/Veraticus/visawatch/internal/model"
)

// DefaultHorizonDays is how far ahead a date counts as expiring soon.
const DefaultHorizonDays = 30

// DefaultNameColumn is read for student names when no name column is
// configured. Unlike a configured one it may be absent from the table.
const DefaultNameColumn = "Name"

// Classify places date relative to today. A nil date is unclassified with a
// nil delta. Expiry today (delta 0) is expiring soon, not expired.
func Classify(date *time.Time, today time.Time, horizonDays int) (model.Classification, *int) {
	if date == nil {
		return model.ClassificationNone, nil
	}

	delta := dates.DaysBetween(today, *date)
	switch {
	case delta < 0:
		return model.ClassificationExpired, &delta
	case delta <= horizonDays:
		return model.ClassificationExpiringSoon, &delta
	default:
		return model.ClassificationNone, &delta
	}
}
