package filter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vmuptime/runtime/internal/errhandling"
	"github.com/vmuptime/runtime/internal/logger"
	"github.com/vmuptime/runtime/internal/table"
	"github.com/vmuptime/runtime/internal/uptime"
	"github.com/vmuptime/runtime/pkg/report"
)

// ModuleTypeUptimeDays is the registry type of the uptime derivation filter.
const ModuleTypeUptimeDays = "uptimeDays"

// UptimeDaysModule attaches UptimeDays to every row by parsing its Uptime
// string. Rows are parsed concurrently in contiguous chunks and written back
// by index, so row order is unchanged. A row whose uptime cannot be read is
// kept with zero days; it never fails the batch.
type UptimeDaysModule struct {
	workers int
	stats   Stats
}

// NewUptimeDays creates the derivation filter. workers <= 0 selects
// runtime.GOMAXPROCS(0).
func NewUptimeDays(workers int) *UptimeDaysModule {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &UptimeDaysModule{workers: workers}
}

// NewUptimeDaysFromConfig creates the derivation filter from module
// configuration. Optional key: "workers" (integer).
func NewUptimeDaysFromConfig(cfg report.ModuleConfig) (*UptimeDaysModule, error) {
	workers := 0
	switch v := cfg.Config["workers"].(type) {
	case nil:
	case int:
		workers = v
	case float64:
		workers = int(v)
	default:
		return nil, errhandling.NewValidationError(fmt.Sprintf("uptimeDays filter: workers must be an integer, got %T", v), nil)
	}
	return NewUptimeDays(workers), nil
}

// Process returns a derived copy of tbl.
func (m *UptimeDaysModule) Process(ctx context.Context, tbl *table.Table) (*table.Table, error) {
	if tbl == nil {
		return nil, errhandling.NewValidationError("uptimeDays filter: nil table", nil)
	}

	rows := tbl.Rows()
	days := make([]float64, len(rows))
	var noDays, malformed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	chunk := (len(rows) + m.workers - 1) / m.workers
	for start := 0; start < len(rows); start += chunk {
		start := start
		end := min(start+chunk, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				d, err := uptime.Parse(rows[i].Uptime)
				switch {
				case errors.Is(err, uptime.ErrNoDays):
					noDays.Add(1)
				case err != nil:
					malformed.Add(1)
				default:
					days[i] = d.InDays()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m.stats = Stats{
		Rows:      len(rows),
		NoDays:    int(noDays.Load()),
		Malformed: int(malformed.Load()),
	}
	if m.stats.Unparsed() > 0 {
		logger.WithModule("filter", ModuleTypeUptimeDays).Debug("uptime fell back to zero days",
			slog.Int("rows", m.stats.Rows),
			slog.Int("no_days", m.stats.NoDays),
			slog.Int("malformed", m.stats.Malformed),
		)
	}

	return tbl.WithUptimeDays(days)
}

// Stats returns the row counts of the most recent Process call.
func (m *UptimeDaysModule) Stats() Stats {
	return m.stats
}

// Verify UptimeDaysModule implements Module and StatsProvider
var (
	_ Module        = (*UptimeDaysModule)(nil)
	_ StatsProvider = (*UptimeDaysModule)(nil)
)
