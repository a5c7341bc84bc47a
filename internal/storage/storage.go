package storage

import (
	"context"
	"time"

	"volMonitor/internal/model"
)

// TableSink receives a fully built table.
type TableSink interface {
	PutTable(ctx context.Context, asOf time.Time, rows []model.MetricRow) error
}
