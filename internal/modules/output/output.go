// Package output provides implementations for output modules.
// Output modules write the final table to its destination.
package output

import (
	"context"

	"github.com/vmuptime/runtime/internal/table"
)

// Module represents an output module that writes a table to a destination.
type Module interface {
	// Send writes the table.
	// Returns the number of rows written and any error.
	Send(ctx context.Context, tbl *table.Table) (int, error)

	// Close releases any resources held by the module.
	Close() error
}

// Destination is implemented by outputs that write to a named location,
// so callers can report where the table went.
type Destination interface {
	Destination() string
}
