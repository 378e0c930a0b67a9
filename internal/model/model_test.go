package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable("students.csv",
		[]string{" Name ", "Email", "Visa Expiry"},
		[][]string{
			{"Ada", "ada@example.edu"},
			{"Grace", "grace@example.edu", "10-01-2025", "extra"},
		})

	assert.Equal(t, []string{"Name", "Email", "Visa Expiry"}, tbl.Columns)
	require.Len(t, tbl.Records, 2)
	assert.Equal(t, 0, tbl.Records[0].Index)
	assert.Equal(t, 1, tbl.Records[1].Index)
	assert.Equal(t, "", tbl.Records[0].Value("Visa Expiry"))
	assert.Len(t, tbl.Records[1].Fields, 3)
	assert.True(t, tbl.HasColumn("Name"))
	assert.False(t, tbl.HasColumn("name"), "header matching is exact")
	assert.Equal(t, []string{"", "10-01-2025"}, tbl.Column("Visa Expiry"))
}

func TestRecordValueTrims(t *testing.T) {
	r := Record{Fields: map[string]string{"Email": "  ada@example.edu\t"}}
	assert.Equal(t, "ada@example.edu", r.Value("Email"))
	assert.Equal(t, "", r.Value("Missing"))
}

func TestClassifiedRecord_TemplateContext(t *testing.T) {
	delta := -3
	rec := ClassifiedRecord{
		Name: "Ada",
		Results: map[string]FieldResult{
			"Visa": {Field: "Visa", DayDelta: &delta, Classification: ClassificationExpired},
		},
	}

	tctx := rec.TemplateContext("Visa")
	assert.Equal(t, "Ada", tctx.Name)
	assert.Equal(t, "Visa", tctx.Category)
	assert.True(t, tctx.Expired)
	assert.True(t, tctx.IsExpired())
	assert.Equal(t, -3, *tctx.DayDelta)

	missing := rec.TemplateContext("Registration")
	assert.Nil(t, missing.DayDelta)
	assert.False(t, missing.IsExpired())
	assert.Equal(t, ClassificationNone, rec.Result("Registration").Classification)
}
