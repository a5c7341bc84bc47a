package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"volMonitor/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// DefaultBatchSize bounds the statements sent in one pgx batch.
const DefaultBatchSize = 1000

// Store provides Postgres persistence for observations and table snapshots.
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := withRetry(ctx, defaultMaxRetries, defaultBackoff, pool.Ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool, batchSize: DefaultBatchSize}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// SetBatchSize changes how many upserts are queued per round trip.
func (s *Store) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// UpsertVolObservations inserts or updates implied vol quotes.
func (s *Store) UpsertVolObservations(ctx context.Context, obs []model.VolObservation) error {
	return s.upsert(ctx, len(obs), func(batch *pgx.Batch, i int) {
		o := obs[i]
		batch.Queue(`
			INSERT INTO vol_observations (obs_date, expiry, tenor, vol, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (obs_date, expiry, tenor)
			DO UPDATE SET
				vol = EXCLUDED.vol,
				updated_at = now()
		`,
			model.DateOf(o.Date),
			o.Expiry,
			o.Tenor,
			o.Vol,
		)
	})
}

// UpsertRateObservations inserts or updates swap rate fixings.
func (s *Store) UpsertRateObservations(ctx context.Context, obs []model.RateObservation) error {
	return s.upsert(ctx, len(obs), func(batch *pgx.Batch, i int) {
		o := obs[i]
		batch.Queue(`
			INSERT INTO rate_observations (obs_date, tenor, rate, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
			ON CONFLICT (obs_date, tenor)
			DO UPDATE SET
				rate = EXCLUDED.rate,
				updated_at = now()
		`,
			model.DateOf(o.Date),
			o.Tenor,
			o.Rate,
		)
	})
}

func (s *Store) upsert(ctx context.Context, n int, queue func(*pgx.Batch, int)) error {
	if n == 0 {
		return nil
	}
	ranges, err := batchRanges(n, s.batchSize)
	if err != nil {
		return err
	}
	for _, r := range ranges {
		batch := &pgx.Batch{}
		for i := r.From; i < r.To; i++ {
			queue(batch, i)
		}
		err := withRetry(ctx, defaultMaxRetries, defaultBackoff, func(ctx context.Context) error {
			return s.sendBatch(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("upsert rows %d-%d: %w", r.From, r.To-1, err)
		}
	}
	return nil
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadVolObservations returns every stored implied vol quote ordered by date.
func (s *Store) LoadVolObservations(ctx context.Context) ([]model.VolObservation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT obs_date, expiry, tenor, vol
		FROM vol_observations
		ORDER BY obs_date, expiry, tenor
	`)
	if err != nil {
		return nil, fmt.Errorf("query vol observations: %w", err)
	}
	defer rows.Close()

	var out []model.VolObservation
	for rows.Next() {
		var o model.VolObservation
		if err := rows.Scan(&o.Date, &o.Expiry, &o.Tenor, &o.Vol); err != nil {
			return nil, fmt.Errorf("scan vol observation: %w", err)
		}
		o.Date = model.DateOf(o.Date)
		out = append(out, o)
	}
	return out, rows.Err()
}

// LoadRateObservations returns every stored swap rate ordered by date.
func (s *Store) LoadRateObservations(ctx context.Context) ([]model.RateObservation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT obs_date, tenor, rate
		FROM rate_observations
		ORDER BY obs_date, tenor
	`)
	if err != nil {
		return nil, fmt.Errorf("query rate observations: %w", err)
	}
	defer rows.Close()

	var out []model.RateObservation
	for rows.Next() {
		var o model.RateObservation
		if err := rows.Scan(&o.Date, &o.Tenor, &o.Rate); err != nil {
			return nil, fmt.Errorf("scan rate observation: %w", err)
		}
		o.Date = model.DateOf(o.Date)
		out = append(out, o)
	}
	return out, rows.Err()
}

// Load reads the full observation universe.
func (s *Store) Load(ctx context.Context) (model.Universe, error) {
	vol, err := s.LoadVolObservations(ctx)
	if err != nil {
		return model.Universe{}, err
	}
	rates, err := s.LoadRateObservations(ctx)
	if err != nil {
		return model.Universe{}, err
	}
	return model.Universe{Vol: vol, Rates: rates}, nil
}

// LoadState returns the last ingested date for a dataset name.
func (s *Store) LoadState(ctx context.Context, name string) (time.Time, bool, error) {
	if name == "" {
		return time.Time{}, false, fmt.Errorf("state name required")
	}
	var last time.Time
	row := s.pool.QueryRow(ctx, `SELECT last_date FROM ingest_state WHERE name=$1`, name)
	if err := row.Scan(&last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return model.DateOf(last), true, nil
}

// SaveState upserts the last ingested date for a dataset name.
func (s *Store) SaveState(ctx context.Context, name string, last time.Time) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingest_state (name, last_date, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_date = EXCLUDED.last_date, updated_at = now()
	`, name, model.DateOf(last))
	return err
}
