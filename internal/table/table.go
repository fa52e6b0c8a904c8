// Package table provides the immutable, row-oriented table that flows through
// the uptime report pipeline.
//
// A Table is built once by the input module and never mutated afterwards:
// WithUptimeDays and Filter return new tables that share no row storage with
// their receiver.
package table

import (
	"errors"
	"fmt"
	"slices"
)

// Column names interpreted by the pipeline.
const (
	UptimeColumn     = "Uptime"
	UptimeDaysColumn = "UptimeDays"
)

var (
	// ErrNoHeader is returned when a table is built without column names.
	ErrNoHeader = errors.New("table has no header")

	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")

	// ErrFieldCount is returned when a row's width differs from the header.
	ErrFieldCount = errors.New("wrong number of fields")
)

// Row is one record of the table.
//
// Values holds every input column in header order and is passed through
// untouched. Uptime is the typed view of the Uptime column; UptimeDays is
// meaningful only once the table has been derived.
type Row struct {
	Values     []string
	Uptime     string
	UptimeDays float64
}

// Value returns the value of column i, or "" if out of range.
func (r Row) Value(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

func (r Row) clone() Row {
	r.Values = slices.Clone(r.Values)
	return r
}

// Table is an ordered set of rows sharing a fixed header.
type Table struct {
	header    []string
	uptimeIdx int
	// daysIdx is the position of UptimeDays in header, or -1 if the
	// column is appended on output.
	daysIdx int
	derived bool
	rows    []Row
}

// New builds a table from a header and raw records, validating the schema
// once: the header must contain Uptime and every record must have exactly
// one value per column. The inputs are copied.
func New(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}

	t := &Table{
		header:    slices.Clone(header),
		uptimeIdx: slices.Index(header, UptimeColumn),
		daysIdx:   slices.Index(header, UptimeDaysColumn),
	}
	if t.uptimeIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, UptimeColumn)
	}

	t.rows = make([]Row, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(header) {
			return nil, &RowError{Index: i, Err: fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(rec), len(header))}
		}
		values := slices.Clone(rec)
		t.rows = append(t.rows, Row{Values: values, Uptime: values[t.uptimeIdx]})
	}
	return t, nil
}

// RowError reports a schema violation at a given record index (0-based,
// header excluded).
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Row returns a copy of row i.
func (t *Table) Row(i int) Row {
	return t.rows[i].clone()
}

// Rows returns a copy of all rows in order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.clone()
	}
	return out
}

// Header returns the input column names.
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// Derived reports whether UptimeDays has been attached.
func (t *Table) Derived() bool {
	return t.derived
}

// Columns returns the output column names: the input header, plus
// UptimeDays appended when the table is derived and the input did not
// already carry that column.
func (t *Table) Columns() []string {
	cols := slices.Clone(t.header)
	if t.derived && t.daysIdx < 0 {
		cols = append(cols, UptimeDaysColumn)
	}
	return cols
}

// Record renders row i for serialization, aligned with Columns. format
// renders the derived day count and is only used on derived tables.
func (t *Table) Record(i int, format func(float64) string) []string {
	r := t.rows[i]
	rec := slices.Clone(r.Values)
	if !t.derived {
		return rec
	}
	days := format(r.UptimeDays)
	if t.daysIdx >= 0 {
		rec[t.daysIdx] = days
		return rec
	}
	return append(rec, days)
}

// WithUptimeDays returns a derived copy of t with UptimeDays set to
// days[i] for row i. len(days) must equal t.Len().
func (t *Table) WithUptimeDays(days []float64) (*Table, error) {
	if len(days) != len(t.rows) {
		return nil, fmt.Errorf("%w: %d day values for %d rows", ErrFieldCount, len(days), len(t.rows))
	}
	out := t.shallow()
	out.derived = true
	out.rows = make([]Row, len(t.rows))
	for i, r := range t.rows {
		r = r.clone()
		r.UptimeDays = days[i]
		out.rows[i] = r
	}
	return out, nil
}

// Filter returns a new table holding the rows for which keep returns true,
// in their original order. keep may fail; the first error aborts the filter.
func (t *Table) Filter(keep func(i int, r Row) (bool, error)) (*Table, error) {
	out := t.shallow()
	out.rows = make([]Row, 0, len(t.rows))
	for i, r := range t.rows {
		ok, err := keep(i, r.clone())
		if err != nil {
			return nil, err
		}
		if ok {
			out.rows = append(out.rows, r.clone())
		}
	}
	return out, nil
}

func (t *Table) shallow() *Table {
	return &Table{
		header:    slices.Clone(t.header),
		uptimeIdx: t.uptimeIdx,
		daysIdx:   t.daysIdx,
		derived:   t.derived,
	}
}
