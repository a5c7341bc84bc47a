package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volMonitor/internal/config"
	"volMonitor/internal/model"
	"volMonitor/internal/source"
	"volMonitor/internal/storage/postgres"
)

const (
	volState  = "volcube"
	rateState = "sofr"
)

func runIngest(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadIngest(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := postgres.NewStore(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer store.Close()
	store.SetBatchSize(cfg.BatchSize)

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	logger.Info("ingest start",
		zap.String("vol_dir", cfg.VolDir),
		zap.String("sofr_dir", cfg.SOFRDir),
		zap.String("dsn", redactDSN(cfg.PGDSN)),
		zap.Int("batch_size", cfg.BatchSize),
	)

	start := time.Now()
	u, err := source.NewFileLoader(cfg.VolDir, cfg.SOFRDir, logger).Load(ctx)
	if err != nil {
		return err
	}

	if err := store.UpsertVolObservations(ctx, u.Vol); err != nil {
		return fmt.Errorf("store vol observations: %w", err)
	}
	if err := saveState(ctx, store, logger, volState, lastVolDate(u.Vol)); err != nil {
		return err
	}

	if err := store.UpsertRateObservations(ctx, u.Rates); err != nil {
		return fmt.Errorf("store rate observations: %w", err)
	}
	if err := saveState(ctx, store, logger, rateState, lastRateDate(u.Rates)); err != nil {
		return err
	}

	logger.Info("ingest done",
		zap.Int("vol_observations", len(u.Vol)),
		zap.Int("rate_observations", len(u.Rates)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// saveState records the last ingested date and logs the previous one.
func saveState(ctx context.Context, store *postgres.Store, logger *zap.Logger, name string, last time.Time) error {
	if last.IsZero() {
		return nil
	}
	prev, ok, err := store.LoadState(ctx, name)
	if err != nil {
		return fmt.Errorf("load %s state: %w", name, err)
	}
	if err := store.SaveState(ctx, name, last); err != nil {
		return fmt.Errorf("save %s state: %w", name, err)
	}
	fields := []zap.Field{zap.String("dataset", name), zap.String("last_date", formatDate(last))}
	if ok {
		fields = append(fields, zap.String("previous_date", formatDate(prev)))
	}
	logger.Info("ingest state saved", fields...)
	return nil
}

func lastVolDate(obs []model.VolObservation) time.Time {
	_, last, _ := model.VolDateRange(obs)
	return last
}

func lastRateDate(obs []model.RateObservation) time.Time {
	var last time.Time
	for _, o := range obs {
		if d := model.DateOf(o.Date); d.After(last) {
			last = d
		}
	}
	return last
}
