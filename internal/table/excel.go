package table

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/visawatch/internal/dates"
	"github.com/Veraticus/visawatch/internal/model"
	"github.com/xuri/excelize/v2"
)

// ExcelLoader reads one worksheet of an .xlsx workbook.
type ExcelLoader struct {
	Path  string
	Sheet string
	// DateLayout is used to write out cells that hold real Excel dates.
	DateLayout string
}

// NewExcelLoader creates a loader for path. An empty sheet selects the first.
func NewExcelLoader(path, sheet string) *ExcelLoader {
	return &ExcelLoader{Path: path, Sheet: sheet, DateLayout: dates.DefaultLayout}
}

// Load returns the worksheet's cell text. Cells holding an Excel date are
// rendered with DateLayout; every other cell comes back as displayed.
func (l *ExcelLoader) Load(ctx context.Context) (*model.Table, error) {
	f, err := excelize.OpenFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", l.Path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := l.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", l.Path)
		}
		sheet = sheets[0]
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheet, l.Path, err)
	}
	if err := l.restoreDates(f, sheet, rows); err != nil {
		return nil, fmt.Errorf("failed to read dates from sheet %q of %s: %w", sheet, l.Path, err)
	}

	return FromRows(fmt.Sprintf("%s[%s]", l.Path, sheet), rows)
}

// restoreDates replaces the displayed text of date-formatted numeric cells
// with the date written in DateLayout.
func (l *ExcelLoader) restoreDates(f *excelize.File, sheet string, rows [][]string) error {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	layout := l.DateLayout
	if layout == "" {
		layout = dates.DefaultLayout
	}

	for r, row := range rows {
		if r >= len(raw) {
			break
		}
		for c := range row {
			if c >= len(raw[r]) || raw[r][c] == row[c] {
				continue
			}
			serial, err := strconv.ParseFloat(raw[r][c], 64)
			if err != nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			isDate, err := dateStyled(f, sheet, cell)
			if err != nil {
				return err
			}
			if !isDate {
				continue
			}

			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[c] = t.Format(layout)
		}
	}
	return nil
}

func dateStyled(f *excelize.File, sheet, cell string) (bool, error) {
	idx, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	style, err := f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	if builtinDateFormat(style.NumFmt) {
		return true, nil
	}
	return style.CustomNumFmt != nil && customDateFormat(*style.CustomNumFmt), nil
}

// builtinDateFormat reports whether id is one of the built-in number formats
// that show a calendar date.
func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 31, id == 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// quotedOrBracketed matches literal text and [color]/[$-locale] sections of a
// number format code.
var quotedOrBracketed = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)

// customDateFormat reports whether a format code shows a day or a year.
// A lone "m" could be minutes, so it does not count.
func customDateFormat(code string) bool {
	code = strings.ToLower(quotedOrBracketed.ReplaceAllString(code, ""))
	return strings.ContainsAny(code, "dy")
}
