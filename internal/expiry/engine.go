package expiry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/dates"
	"github.com/Veraticus/visawatch/internal/model"
)

// FieldReport is the partition of one tracked field plus how many of its
// cells could not be parsed.
type FieldReport struct {
	Partition Partition
	Field     FieldConfig
	Unparsed  int
	Horizon   int
}

// Report is the result of one classification pass over a table.
type Report struct {
	Today      time.Time
	Source     string
	DateLayout string
	Records    []model.ClassifiedRecord
	Fields     []FieldReport
}

// Field returns the report for the named tracked field.
func (r *Report) Field(name string) (FieldReport, bool) {
	for _, f := range r.Fields {
		if f.Field.Name == name {
			return f, true
		}
	}
	return FieldReport{}, false
}

// Engine runs parse, classify and partition with one fixed reference day.
type Engine struct {
	logger *slog.Logger
	opts   Options
}

// New validates opts and returns an engine. The reference day in opts is
// truncated to a calendar date once, here.
func New(opts Options, logger *slog.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts.Today = dates.Today(opts.Today)

	return &Engine{opts: opts, logger: logger}, nil
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Run classifies every record of table. Shape problems (no rows, a designated
// column that does not exist) reject the whole pass; bad date cells do not.
func (e *Engine) Run(table *model.Table) (*Report, error) {
	if err := e.checkShape(table); err != nil {
		return nil, err
	}

	layout := e.opts.layout()
	nameColumn := e.nameColumn(table)
	records := make([]model.ClassifiedRecord, len(table.Records))
	for i, rec := range table.Records {
		records[i] = model.ClassifiedRecord{
			Record:  rec,
			Contact: rec.Value(e.opts.ContactColumn),
			Results: make(map[string]model.FieldResult, len(e.opts.Fields)),
		}
		if nameColumn != "" {
			records[i].Name = rec.Value(nameColumn)
		}
	}

	report := &Report{
		Today:      e.opts.Today,
		Source:     table.Source,
		DateLayout: layout,
		Records:    records,
		Fields:     make([]FieldReport, 0, len(e.opts.Fields)),
	}

	for _, field := range e.opts.Fields {
		raw := table.Column(field.Column)
		parsed, unparsed := dates.ParseColumn(raw, layout)
		horizon := e.opts.Horizon(field)

		for i := range records {
			class, delta := Classify(parsed[i], e.opts.Today, horizon)
			records[i].Results[field.Name] = model.FieldResult{
				Field:          field.Name,
				Raw:            raw[i],
				Date:           parsed[i],
				DayDelta:       delta,
				Classification: class,
			}
		}

		if unparsed > 0 {
			e.logger.Warn("unparseable dates treated as missing",
				"field", field.Name,
				"column", field.Column,
				"count", unparsed,
				"layout", layout)
		}

		report.Fields = append(report.Fields, FieldReport{
			Field:     field,
			Unparsed:  unparsed,
			Horizon:   horizon,
			Partition: PartitionBy(records, field.Name),
		})
	}

	for _, f := range report.Fields {
		e.logger.Debug("classified field",
			"field", f.Field.Name,
			"total", f.Partition.Summary.Total,
			"expiring_soon", f.Partition.Summary.ExpiringSoon,
			"expired", f.Partition.Summary.Expired)
	}

	return report, nil
}

// nameColumn returns the configured name column, or DefaultNameColumn when
// none was configured and the table happens to have one.
func (e *Engine) nameColumn(table *model.Table) string {
	if e.opts.NameColumn != "" {
		return e.opts.NameColumn
	}
	if table.HasColumn(DefaultNameColumn) {
		return DefaultNameColumn
	}
	return ""
}

func (e *Engine) checkShape(table *model.Table) error {
	if table == nil || len(table.Records) == 0 {
		return common.ErrEmptyTable
	}

	columns := []string{e.opts.ContactColumn}
	if e.opts.NameColumn != "" {
		columns = append(columns, e.opts.NameColumn)
	}
	for _, f := range e.opts.Fields {
		columns = append(columns, f.Column)
	}

	for _, c := range columns {
		if !table.HasColumn(c) {
			return fmt.Errorf("table %s: %w", table.Source, common.MissingColumnError(c))
		}
	}
	return nil
}
