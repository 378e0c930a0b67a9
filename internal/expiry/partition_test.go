package expiry

import (
	"testing"

	"github.com/Veraticus/visawatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classified(index int, deltas ...int) []model.ClassifiedRecord {
	out := make([]model.ClassifiedRecord, 0, len(deltas))
	for i, d := range deltas {
		class, delta := Classify(daysFromToday(d), today, 30)
		out = append(out, model.ClassifiedRecord{
			Record: model.Record{Index: index + i},
			Results: map[string]model.FieldResult{
				"Visa": {Field: "Visa", Classification: class, DayDelta: delta},
			},
		})
	}
	return out
}

func indexes(records []model.ClassifiedRecord) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Record.Index
	}
	return out
}

func TestPartitionBy_Ordering(t *testing.T) {
	records := classified(0, 20, -3, 5, -40, 90, 0, -3, 5)

	p := PartitionBy(records, "Visa")

	assert.Equal(t, []int{5, 2, 7, 0}, indexes(p.ExpiringSoon), "soonest first, ties in input order")
	assert.Equal(t, []int{3, 1, 6}, indexes(p.Expired), "most overdue first, ties in input order")
	assert.Equal(t, model.Counts{Total: 8, ExpiringSoon: 4, Expired: 3}, p.Summary)
}

func TestPartitionBy_EqualOverdueKeepsOrder(t *testing.T) {
	records := classified(0, -5, -5)

	p := PartitionBy(records, "Visa")

	assert.Equal(t, []int{0, 1}, indexes(p.Expired))
}

func TestPartitionBy_CoversEveryRecordOnce(t *testing.T) {
	records := classified(0, -10, -1, 0, 1, 30, 31, 100)
	records = append(records, model.ClassifiedRecord{
		Record: model.Record{Index: 7},
		Results: map[string]model.FieldResult{
			"Visa": {Field: "Visa", Classification: model.ClassificationNone},
		},
	})

	p := PartitionBy(records, "Visa")
	none := p.Unclassified(records)

	assert.Equal(t, len(records), len(p.Expired)+len(p.ExpiringSoon)+len(none))

	seen := make(map[int]int)
	for _, group := range [][]model.ClassifiedRecord{p.Expired, p.ExpiringSoon, none} {
		for _, r := range group {
			seen[r.Record.Index]++
		}
	}
	for idx, n := range seen {
		assert.Equal(t, 1, n, "record %d appears in more than one bucket", idx)
	}
}

func TestPartitionBy_DoesNotMutateInput(t *testing.T) {
	records := classified(0, 10, -2, 3, -8)
	before := indexes(records)

	_ = PartitionBy(records, "Visa")

	assert.Equal(t, before, indexes(records))
}

func TestPartitionBy_UnknownField(t *testing.T) {
	records := classified(0, -1, 1)

	p := PartitionBy(records, "Registration")

	require.Empty(t, p.Expired)
	require.Empty(t, p.ExpiringSoon)
	assert.Equal(t, 2, p.Summary.Total)
}
