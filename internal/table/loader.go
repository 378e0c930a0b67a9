// Package table loads spreadsheet files into an in-memory table of records.
package table

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/Veraticus/visawatch/internal/dates"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/Veraticus/visawatch/internal/service"
)

// Option configures a loader returned by Open.
type Option func(*openOptions)

type openOptions struct {
	dateLayout string
}

// WithDateLayout sets the layout Excel date cells are written in, so they
// parse with the same layout as text cells.
func WithDateLayout(layout string) Option {
	return func(o *openOptions) {
		if layout != "" {
			o.dateLayout = layout
		}
	}
}

// Open returns a loader for path chosen by its extension. sheet names the
// worksheet for Excel files; empty means the first one.
func Open(path, sheet string, opts ...Option) (service.TableLoader, error) {
	o := openOptions{dateLayout: dates.DefaultLayout}
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVLoader(path), nil
	case ".tsv":
		l := NewCSVLoader(path)
		l.Comma = '\t'
		return l, nil
	case ".xlsx", ".xlsm":
		l := NewExcelLoader(path, sheet)
		l.DateLayout = o.dateLayout
		return l, nil
	default:
		return nil, fmt.Errorf("%w: %s (expected .csv, .tsv, .xlsx or .xlsm)", common.ErrUnsupportedFormat, path)
	}
}

// Load is a convenience for Open followed by Load.
func Load(ctx context.Context, path, sheet string, opts ...Option) (*model.Table, error) {
	loader, err := Open(path, sheet, opts...)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}

// FromRows turns raw rows (header first) into a table, dropping fully blank rows.
func FromRows(source string, rows [][]string) (*model.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", source, common.ErrEmptyTable)
	}

	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		data = append(data, row)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", source, common.ErrEmptyTable)
	}

	return model.NewTable(source, header, data), nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
