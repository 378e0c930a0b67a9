package expiry

import (
	"sort"

	"github.com/Veraticus/visawatch/internal/model"
)

// Partition groups classified records by one tracked field.
type Partition struct {
	Field        string
	ExpiringSoon []model.ClassifiedRecord
	Expired      []model.ClassifiedRecord
	Summary      model.Counts
}

// PartitionBy groups records on field. Expiring-soon records come soonest
// first and expired records most overdue first; ties keep input order. The
// input slice is not modified.
func PartitionBy(records []model.ClassifiedRecord, field string) Partition {
	p := Partition{
		Field:   field,
		Summary: model.Counts{Total: len(records)},
	}

	for _, r := range records {
		switch r.Result(field).Classification {
		case model.ClassificationExpiringSoon:
			p.ExpiringSoon = append(p.ExpiringSoon, r)
		case model.ClassificationExpired:
			p.Expired = append(p.Expired, r)
		}
	}

	sort.SliceStable(p.ExpiringSoon, func(i, j int) bool {
		return delta(p.ExpiringSoon[i], field) < delta(p.ExpiringSoon[j], field)
	})
	sort.SliceStable(p.Expired, func(i, j int) bool {
		return -delta(p.Expired[i], field) > -delta(p.Expired[j], field)
	})

	p.Summary.ExpiringSoon = len(p.ExpiringSoon)
	p.Summary.Expired = len(p.Expired)
	return p
}

// Unclassified returns the records that fell in neither bucket, in input order.
func (p Partition) Unclassified(records []model.ClassifiedRecord) []model.ClassifiedRecord {
	var out []model.ClassifiedRecord
	for _, r := range records {
		if r.Result(p.Field).Classification == model.ClassificationNone {
			out = append(out, r)
		}
	}
	return out
}

// delta is only called for bucketed records, which always carry a delta.
func delta(r model.ClassifiedRecord, field string) int {
	if d := r.Result(field).DayDelta; d != nil {
		return *d
	}
	return 0
}
