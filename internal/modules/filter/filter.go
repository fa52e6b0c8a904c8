// Package filter provides implementations for filter modules.
// Filter modules derive columns from and select rows of a table. Each call
// returns a new table; the input table is never modified.
package filter

import (
	"context"

	"github.com/vmuptime/runtime/internal/table"
)

// Module represents a filter module that transforms a table.
type Module interface {
	// Process transforms the input table and returns the result.
	Process(ctx context.Context, tbl *table.Table) (*table.Table, error)
}

// Stats counts row-level outcomes of the most recent Process call.
type Stats struct {
	// Rows is the number of rows processed
	Rows int
	// NoDays is the number of rows whose uptime had no day component
	NoDays int
	// Malformed is the number of rows whose uptime could not be read
	Malformed int
}

// Unparsed is the number of rows that fell back to zero days.
func (s Stats) Unparsed() int {
	return s.NoDays + s.Malformed
}

// StatsProvider is implemented by filters that recover row-level failures
// and want them reported with the execution result.
type StatsProvider interface {
	Stats() Stats
}
