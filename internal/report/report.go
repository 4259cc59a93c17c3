package report

import "fmt"

// Kind describes how a column's cells should be presented
type Kind int

const (
	Text Kind = iota
	Integer
	Money
	Date
	Bool
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Money:
		return "money"
	case Date:
		return "date"
	case Bool:
		return "bool"
	default:
		return "text"
	}
}

// Column is a named, typed report column
type Column struct {
	Name string
	Kind Kind
}

// Cell holds an unformatted value: string, int, float64, bool,
// time.Time or *time.Time (nil means "no date").
type Cell = any

// Row is one line of a report, one cell per column
type Row []Cell

// Report is a titled table. It carries values only; styling is up to the renderer.
type Report struct {
	Title   string
	Columns []Column
	Rows    []Row
}

// New creates an empty report with the given columns
func New(title string, columns ...Column) *Report {
	return &Report{
		Title:   title,
		Columns: columns,
		Rows:    make([]Row, 0),
	}
}

// AddRow appends a row. Missing trailing cells are left nil; more cells
// than columns is a programming error and panics.
func (r *Report) AddRow(cells ...Cell) {
	if len(cells) > len(r.Columns) {
		panic(fmt.Sprintf("report %q: row has %d cells for %d columns", r.Title, len(cells), len(r.Columns)))
	}
	row := make(Row, len(r.Columns))
	copy(row, cells)
	r.Rows = append(r.Rows, row)
}

// Len returns the number of rows
func (r *Report) Len() int {
	return len(r.Rows)
}
