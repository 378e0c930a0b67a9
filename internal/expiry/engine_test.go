package expiry

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/Veraticus/visawatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studentTable() *model.Table {
	return testutil.NewTableBuilder().WithFixture(testutil.FixtureCohort).Build()
}

func newTestEngine(t *testing.T, fields ...FieldConfig) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if len(fields) == 0 {
		fields = []FieldConfig{{Name: "Visa", Column: "Visa Expiry"}}
	}

	engine, err := New(Options{
		Today:         time.Date(2025, time.January, 1, 15, 30, 0, 0, time.Local),
		HorizonDays:   DefaultHorizonDays,
		ContactColumn: "Email",
		NameColumn:    "Name",
		Fields:        fields,
	}, logger)
	require.NoError(t, err)
	return engine, &buf
}

func TestEngineRun_EndToEnd(t *testing.T) {
	engine, logs := newTestEngine(t)

	report, err := engine.Run(studentTable())
	require.NoError(t, err)

	assert.Equal(t, today, report.Today, "time of day is dropped from the reference date")
	require.Len(t, report.Records, 4)

	visa, ok := report.Field("Visa")
	require.True(t, ok)

	require.Len(t, visa.Partition.Expired, 1)
	assert.Equal(t, "Ada", visa.Partition.Expired[0].Name)
	assert.Equal(t, -17, *visa.Partition.Expired[0].Result("Visa").DayDelta)

	require.Len(t, visa.Partition.ExpiringSoon, 1)
	assert.Equal(t, "Grace", visa.Partition.ExpiringSoon[0].Name)
	assert.Equal(t, "grace@example.edu", visa.Partition.ExpiringSoon[0].Contact)
	assert.Equal(t, 9, *visa.Partition.ExpiringSoon[0].Result("Visa").DayDelta)

	assert.Equal(t, model.Counts{Total: 4, ExpiringSoon: 1, Expired: 1}, visa.Partition.Summary)
	assert.Equal(t, 1, visa.Unparsed)

	ken := report.Records[3].Result("Visa")
	assert.True(t, ken.Missing())
	assert.Nil(t, ken.DayDelta)
	assert.Equal(t, model.ClassificationNone, ken.Classification)
	assert.Equal(t, "N/A", ken.Raw)

	assert.Contains(t, logs.String(), "unparseable dates treated as missing")
}

func TestEngineRun_FieldsClassifiedIndependently(t *testing.T) {
	engine, _ := newTestEngine(t,
		FieldConfig{Name: "Visa", Column: "Visa Expiry"},
		FieldConfig{Name: "Registration", Column: "Registration Expiry", HorizonDays: intPtr(7)},
	)

	report, err := engine.Run(studentTable())
	require.NoError(t, err)
	require.Len(t, report.Fields, 2)

	reg, ok := report.Field("Registration")
	require.True(t, ok)

	require.Len(t, reg.Partition.Expired, 1)
	assert.Equal(t, "Grace", reg.Partition.Expired[0].Name)
	require.Len(t, reg.Partition.ExpiringSoon, 1)
	assert.Equal(t, "Ken", reg.Partition.ExpiringSoon[0].Name)
	assert.Equal(t, 0, reg.Unparsed, "empty cells are not parse failures")
	assert.Equal(t, 7, reg.Horizon)

	visa, ok := report.Field("Visa")
	require.True(t, ok)
	assert.Equal(t, DefaultHorizonDays, visa.Horizon)

	grace := report.Records[1]
	assert.Equal(t, model.ClassificationExpiringSoon, grace.Result("Visa").Classification)
	assert.Equal(t, model.ClassificationExpired, grace.Result("Registration").Classification)

	// Ada's registration is five months out, past the seven day horizon
	assert.Equal(t, model.ClassificationNone, report.Records[0].Result("Registration").Classification)
}

func TestEngineRun_ShapeErrors(t *testing.T) {
	engine, _ := newTestEngine(t, FieldConfig{Name: "Visa", Column: "Passport Expiry"})

	_, err := engine.Run(studentTable())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
	assert.Contains(t, err.Error(), "Passport Expiry")

	_, err = engine.Run(model.NewTable("empty.csv", []string{"Name", "Email", "Visa Expiry"}, nil))
	assert.ErrorIs(t, err, common.ErrEmptyTable)

	_, err = engine.Run(nil)
	assert.ErrorIs(t, err, common.ErrEmptyTable)
}

func TestEngineRun_NameColumn(t *testing.T) {
	opts := Options{
		Today:         today,
		HorizonDays:   DefaultHorizonDays,
		ContactColumn: "Email",
		Fields:        []FieldConfig{{Name: "Visa", Column: "Visa Expiry"}},
	}
	unnamed := model.NewTable("unnamed.csv",
		[]string{"Email", "Visa Expiry"},
		[][]string{{"grace@example.edu", "10-01-2025"}})

	t.Run("default column absent", func(t *testing.T) {
		engine, err := New(opts, nil)
		require.NoError(t, err)

		report, err := engine.Run(unnamed)
		require.NoError(t, err)
		require.Len(t, report.Records, 1)
		assert.Empty(t, report.Records[0].Name)
		assert.Equal(t, model.ClassificationExpiringSoon, report.Records[0].Result("Visa").Classification)
	})

	t.Run("default column present", func(t *testing.T) {
		engine, err := New(opts, nil)
		require.NoError(t, err)

		report, err := engine.Run(studentTable())
		require.NoError(t, err)
		assert.Equal(t, "Ada", report.Records[0].Name)
	})

	t.Run("configured column absent", func(t *testing.T) {
		configured := opts
		configured.NameColumn = "Full Name"
		engine, err := New(configured, nil)
		require.NoError(t, err)

		_, err = engine.Run(unnamed)
		assert.ErrorIs(t, err, common.ErrMissingColumn)
		assert.Contains(t, err.Error(), "Full Name")
	})
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	_, err := New(Options{
		Today:         today,
		HorizonDays:   -1,
		ContactColumn: "Email",
		Fields:        []FieldConfig{{Name: "Visa", Column: "Visa Expiry"}},
	}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestEngineRun_Boundaries(t *testing.T) {
	engine, _ := newTestEngine(t)

	report, err := engine.Run(testutil.NewTableBuilder().WithFixture(testutil.FixtureBoundaries).Build())
	require.NoError(t, err)

	want := map[string]model.Classification{
		"Yesterday": model.ClassificationExpired,
		"Today":     model.ClassificationExpiringSoon,
		"Horizon":   model.ClassificationExpiringSoon,
		"Beyond":    model.ClassificationNone,
	}
	for _, rec := range report.Records {
		assert.Equal(t, want[rec.Name], rec.Result("Visa").Classification, rec.Name)
	}

	visa, _ := report.Field("Visa")
	require.Len(t, visa.Partition.ExpiringSoon, 2)
	assert.Equal(t, "Today", visa.Partition.ExpiringSoon[0].Name)
	assert.Equal(t, 30, *visa.Partition.ExpiringSoon[1].Result("Visa").DayDelta)
}
