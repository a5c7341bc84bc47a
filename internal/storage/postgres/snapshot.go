package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"volMonitor/internal/model"
)

type snapshotRow struct {
	Position int
	Expiry   string
	Tenor    int
	Label    string
	IsMover  bool
	Payload  []byte
}

func snapshotRows(rows []model.MetricRow) ([]snapshotRow, error) {
	out := make([]snapshotRow, 0, len(rows))
	for i, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("marshal metric row %s: %w", row.Label, err)
		}
		out = append(out, snapshotRow{
			Position: i,
			Expiry:   row.Expiry,
			Tenor:    row.Tenor,
			Label:    row.Label,
			IsMover:  row.Movers.Any(),
			Payload:  payload,
		})
	}
	return out, nil
}

// SaveSnapshot stores a built table under a new snapshot id in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, asOf time.Time, rows []model.MetricRow) (uuid.UUID, error) {
	encoded, err := snapshotRows(rows)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO metric_snapshots (snapshot_id, as_of, row_count, created_at)
		VALUES ($1, $2, $3, now())
	`, id, model.DateOf(asOf), len(encoded)); err != nil {
		return uuid.Nil, fmt.Errorf("insert snapshot: %w", err)
	}

	if len(encoded) > 0 {
		batch := &pgx.Batch{}
		for _, r := range encoded {
			batch.Queue(`
				INSERT INTO metric_rows (snapshot_id, position, expiry, tenor, label, is_mover, payload)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, id, r.Position, r.Expiry, r.Tenor, r.Label, r.IsMover, r.Payload)
		}
		br := tx.SendBatch(ctx, batch)
		for range encoded {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return uuid.Nil, fmt.Errorf("insert metric row: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return uuid.Nil, fmt.Errorf("close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return id, nil
}

// PutTable persists the table as a snapshot.
func (s *Store) PutTable(ctx context.Context, asOf time.Time, rows []model.MetricRow) error {
	_, err := s.SaveSnapshot(ctx, asOf, rows)
	return err
}
