// Package testutil provides shared test data for the visawatch packages.
//
// Tables are assembled with a fluent builder, usually starting from a fixture:
//
//	tbl := testutil.NewTableBuilder().
//		WithFixture(testutil.FixtureCohort).
//		WithEmail("Ken", "not-an-address").
//		Build()
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/model"
)

// Column names used by every fixture.
const (
	ColumnName         = "Name"
	ColumnEmail        = "Email"
	ColumnVisa         = "Visa Expiry"
	ColumnRegistration = "Registration Expiry"
)

// ReferenceDay is the "today" the fixtures are written against.
var ReferenceDay = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Student is one fixture row. Dates are DD-MM-YYYY strings, kept raw so
// fixtures can hold empty and malformed cells.
type Student struct {
	Name         string
	Email        string
	Visa         string
	Registration string
}

func (s Student) row() []string {
	return []string{s.Name, s.Email, s.Visa, s.Registration}
}

// Fixture is a predefined set of students.
type Fixture struct {
	Name        string
	Description string
	Students    []Student
}

// Predefined fixtures.
var (
	// FixtureCohort relative to ReferenceDay: Ada's visa expired 17 days ago,
	// Grace's expires in 9 days, Linus's in 59, Ken's cell is unreadable.
	// On registration Grace lapsed 12 days ago and Ken expires in 4.
	FixtureCohort = Fixture{
		Name:        "Cohort",
		Description: "Four students covering expired, expiring, distant and unreadable dates",
		Students: []Student{
			{Name: "Ada", Email: "ada@example.edu", Visa: "15-12-2024", Registration: "01-06-2025"},
			{Name: "Grace", Email: "grace@example.edu", Visa: "10-01-2025", Registration: "20-12-2024"},
			{Name: "Linus", Email: "linus@example.edu", Visa: "01-03-2025"},
			{Name: "Ken", Email: "ken@example.edu", Visa: "N/A", Registration: "05-01-2025"},
		},
	}

	// FixtureBoundaries sits on the classification edges for a 30 day horizon.
	FixtureBoundaries = Fixture{
		Name:        "Boundaries",
		Description: "Yesterday, today, the horizon day and the day after it",
		Students: []Student{
			{Name: "Yesterday", Email: "yesterday@example.edu", Visa: "31-12-2024"},
			{Name: "Today", Email: "today@example.edu", Visa: "01-01-2025"},
			{Name: "Horizon", Email: "horizon@example.edu", Visa: "31-01-2025"},
			{Name: "Beyond", Email: "beyond@example.edu", Visa: "01-02-2025"},
		},
	}
)

// TableBuilder assembles a student table.
type TableBuilder struct {
	source   string
	students []Student
}

// NewTableBuilder creates an empty builder whose table source is "students.csv".
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{source: "students.csv"}
}

// WithSource sets the table's source label.
func (b *TableBuilder) WithSource(source string) *TableBuilder {
	b.source = source
	return b
}

// WithStudent appends one student.
func (b *TableBuilder) WithStudent(s Student) *TableBuilder {
	b.students = append(b.students, s)
	return b
}

// WithFixture appends every student of f.
func (b *TableBuilder) WithFixture(f Fixture) *TableBuilder {
	b.students = append(b.students, f.Students...)
	return b
}

// WithEmail replaces the email of every student called name.
func (b *TableBuilder) WithEmail(name, email string) *TableBuilder {
	for i := range b.students {
		if b.students[i].Name == name {
			b.students[i].Email = email
		}
	}
	return b
}

// Header returns the column header shared by all fixtures.
func (b *TableBuilder) Header() []string {
	return []string{ColumnName, ColumnEmail, ColumnVisa, ColumnRegistration}
}

// Rows returns the data rows in insertion order.
func (b *TableBuilder) Rows() [][]string {
	rows := make([][]string, len(b.students))
	for i, s := range b.students {
		rows[i] = s.row()
	}
	return rows
}

// Build returns the in-memory table.
func (b *TableBuilder) Build() *model.Table {
	return model.NewTable(b.source, b.Header(), b.Rows())
}

// CSV renders the table as CSV text with a header row.
func (b *TableBuilder) CSV() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(b.Header())
	_ = w.WriteAll(b.Rows())
	return sb.String()
}

// WriteCSV writes the table to name inside a fresh temporary directory and
// returns the path.
func (b *TableBuilder) WriteCSV(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(b.CSV()), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
