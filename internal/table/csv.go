package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/visawatch/internal/model"
)

// CSVLoader reads a delimited text file whose first row is the header.
type CSVLoader struct {
	Path  string
	Comma rune
}

// NewCSVLoader creates a comma-separated loader for path.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{Path: path, Comma: ','}
}

// Load reads the whole file. Rows may have differing lengths.
func (l *CSVLoader) Load(ctx context.Context) (*model.Table, error) {
	f, err := os.Open(l.Path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", l.Path, err)
	}
	defer func() { _ = f.Close() }()

	return l.read(ctx, f)
}

func (l *CSVLoader) read(ctx context.Context, r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = l.Comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", l.Path, err)
		}
		rows = append(rows, row)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		// strip a UTF-8 byte order mark left by spreadsheet exports
		rows[0][0] = trimBOM(rows[0][0])
	}

	return FromRows(l.Path, rows)
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
