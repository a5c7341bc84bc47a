package volstats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"volMonitor/internal/model"
)

// Source provides the observation universe a table is built from.
type Source interface {
	Get(ctx context.Context) (model.Universe, error)
}

// Builder builds tables from a Source with fixed parameters.
type Builder struct {
	params Params
	source Source
	logger *zap.Logger
}

func NewBuilder(params Params, source Source, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		params: params,
		source: source,
		logger: logger,
	}
}

// BuildAt builds the table as of asOf.
func (b *Builder) BuildAt(ctx context.Context, asOf time.Time) ([]model.MetricRow, error) {
	if b.source == nil {
		return nil, fmt.Errorf("source is nil")
	}
	universe, err := b.source.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	return b.build(universe, asOf)
}

// BuildLatest builds the table as of the last implied vol date in the universe.
func (b *Builder) BuildLatest(ctx context.Context) (time.Time, []model.MetricRow, error) {
	if b.source == nil {
		return time.Time{}, nil, fmt.Errorf("source is nil")
	}
	universe, err := b.source.Get(ctx)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("load universe: %w", err)
	}
	_, last, ok := universe.DateRange()
	if !ok {
		return time.Time{}, nil, fmt.Errorf("%w: no implied vol observations loaded", ErrInvalidDateRange)
	}
	rows, err := b.build(universe, last)
	if err != nil {
		return time.Time{}, nil, err
	}
	return last, rows, nil
}

func (b *Builder) build(universe model.Universe, asOf time.Time) ([]model.MetricRow, error) {
	start := time.Now()
	rows, err := Build(universe.Vol, universe.Rates, asOf, b.params)
	if err != nil {
		return nil, err
	}

	gridSize := len(b.params.Expiries) * len(b.params.Tenors)
	var movers, missingRealized int
	for _, row := range rows {
		if row.Movers.Any() {
			movers++
		}
		if !hasRealized(row) {
			missingRealized++
		}
	}

	b.logger.Info("table built",
		zap.String("as_of", asOf.Format(dateLayout)),
		zap.Int("rows", len(rows)),
		zap.Int("grid_cells", gridSize),
		zap.Int("skipped_cells", gridSize-len(rows)),
		zap.Int("movers", movers),
		zap.Int("missing_realized", missingRealized),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rows, nil
}

func hasRealized(row model.MetricRow) bool {
	for _, rv := range row.Realized {
		if model.Optional(rv.Vol) != nil {
			return true
		}
	}
	return false
}
