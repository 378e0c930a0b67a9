package model

import "time"

// Classification is the expiry state of one tracked date.
type Classification string

// Classification constants.
const (
	ClassificationNone         Classification = "NONE"
	ClassificationExpiringSoon Classification = "EXPIRING_SOON"
	ClassificationExpired      Classification = "EXPIRED"
)

// FieldResult is the classification of one tracked-date field of a record.
// Date and DayDelta are nil when the cell was empty or unparseable.
type FieldResult struct {
	Date           *time.Time
	DayDelta       *int
	Field          string
	Raw            string
	Classification Classification
}

// Missing reports whether the tracked date could not be read.
func (f FieldResult) Missing() bool {
	return f.Date == nil
}

// ClassifiedRecord is a record plus its per-field results.
type ClassifiedRecord struct {
	Results map[string]FieldResult
	Contact string
	Name    string
	Record  Record
}

// Result returns the result for field. Unknown fields come back unclassified.
func (c ClassifiedRecord) Result(field string) FieldResult {
	if r, ok := c.Results[field]; ok {
		return r
	}
	return FieldResult{Field: field, Classification: ClassificationNone}
}

// Counts summarises a partition.
type Counts struct {
	Total        int
	ExpiringSoon int
	Expired      int
}
