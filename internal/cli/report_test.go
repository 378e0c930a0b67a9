package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/expiry"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport(t *testing.T) *expiry.Report {
	t.Helper()
	engine, err := expiry.New(expiry.Options{
		Today:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		HorizonDays:   30,
		ContactColumn: "Email",
		NameColumn:    "Name",
		Fields:        []expiry.FieldConfig{{Name: "Visa", Column: "Visa Expiry"}},
	}, nil)
	require.NoError(t, err)

	report, err := engine.Run(model.NewTable("students.csv",
		[]string{"Name", "Email", "Visa Expiry"},
		[][]string{
			{"Ada", "ada@example.edu", "15-12-2024"},
			{"Grace", "grace@example.edu", "10-01-2025"},
			{"Linus", "linus@example.edu", "01-03-2025"},
			{"Ken", "ken@example.edu", "N/A"},
		}))
	require.NoError(t, err)
	return report
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, testReport(t), ReportOptions{}))
	out := buf.String()

	assert.Contains(t, out, "Expiry check for Wed 01 Jan 2025")
	assert.Contains(t, out, "source: students.csv")
	assert.Contains(t, out, "Visa (Visa Expiry)")
	assert.Contains(t, out, "4 records")
	assert.Contains(t, out, "1 expiring within 30 days")
	assert.Contains(t, out, "1 expired")
	assert.Contains(t, out, `1 value(s) in "Visa Expiry" did not match`)
	assert.Contains(t, out, "Expiring soon (1)")
	assert.Contains(t, out, "in 9 days")
	assert.Contains(t, out, "Expired (1)")
	assert.Contains(t, out, "17 days ago")
	assert.NotContains(t, out, "Linus", "records outside the horizon are not listed")
	assert.NotContains(t, out, "All records")
}

func TestRenderReport_ShowAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, testReport(t), ReportOptions{ShowAll: true}))
	out := buf.String()

	assert.Contains(t, out, "All records (4)")
	assert.Contains(t, out, "Linus")
	assert.Contains(t, out, "N/A", "unparsed cells are shown as read")
	assert.Contains(t, out, "expiring soon")
	assert.Contains(t, out, "ok")
}

func TestRenderReport_NothingExpiring(t *testing.T) {
	report := testReport(t)
	report.Fields[0].Partition = expiry.PartitionBy(nil, "Visa")

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, report, ReportOptions{}))
	assert.Contains(t, buf.String(), "No visa expiring in the next 30 days.")
	assert.NotContains(t, buf.String(), "Expired (")
}

func TestFormatDelta(t *testing.T) {
	tests := []struct {
		delta *int
		name  string
		want  string
	}{
		{name: "missing", delta: nil, want: "-"},
		{name: "today", delta: intPtr(0), want: "today"},
		{name: "tomorrow", delta: intPtr(1), want: "in 1 day"},
		{name: "future", delta: intPtr(9), want: "in 9 days"},
		{name: "yesterday", delta: intPtr(-1), want: "1 day ago"},
		{name: "past", delta: intPtr(-17), want: "17 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDelta(tt.delta))
		})
	}
}

func TestRenderMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMessage(&buf, model.Message{
		To:      "grace@example.edu",
		Subject: "Your Visa expires soon",
		Body:    "Dear Grace,",
	}))

	out := buf.String()
	assert.Contains(t, out, "Notification preview")
	assert.Contains(t, out, "grace@example.edu")
	assert.Contains(t, out, "Your Visa expires soon")
	assert.Contains(t, out, "Dear Grace,")
}

func TestClassificationStyle(t *testing.T) {
	assert.Equal(t, ErrorStyle.GetForeground(), ClassificationStyle(model.ClassificationExpired).GetForeground())
	assert.Equal(t, WarningStyle.GetForeground(), ClassificationStyle(model.ClassificationExpiringSoon).GetForeground())
}

func intPtr(v int) *int { return &v }
