// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Record is one row of a loaded table. Records are never mutated after loading;
// derived values live on ClassifiedRecord.
type Record struct {
	Fields map[string]string
	Index  int
}

// Value returns the trimmed cell for column, or "" when the row has none.
func (r Record) Value(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// Table is a header plus its rows, as handed over by a loader.
type Table struct {
	Source  string
	Columns []string
	Records []Record
}

// HasColumn reports whether the header contains column exactly.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Column returns every value of column in record order.
func (t *Table) Column(column string) []string {
	values := make([]string, len(t.Records))
	for i, r := range t.Records {
		values[i] = r.Value(column)
	}
	return values
}

// NewTable builds a table from a header row and data rows. Short rows are
// padded with empty cells and cells beyond the header are dropped.
func NewTable(source string, header []string, rows [][]string) *Table {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]string, len(columns))
		for i, c := range columns {
			if c == "" {
				continue
			}
			if i < len(row) {
				fields[c] = row[i]
			} else {
				fields[c] = ""
			}
		}
		records = append(records, Record{Index: len(records), Fields: fields})
	}

	return &Table{
		Source:  source,
		Columns: columns,
		Records: records,
	}
}
