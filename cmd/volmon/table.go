package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volMonitor/internal/config"
	"volMonitor/internal/model"
	"volMonitor/internal/report"
	"volMonitor/internal/storage"
	"volMonitor/internal/volstats"
)

func runTable(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTable(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	params, err := cfg.Grid.Params()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSources(ctx, cfg.Source, cfg.Persist, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	logger.Info("table start",
		zap.String("source", cfg.Source.Kind),
		zap.Bool("latest", cfg.Latest),
		zap.String("as_of", formatDate(cfg.AsOf)),
		zap.Strings("expiries", params.Expiries),
		zap.Ints("tenors", params.Tenors),
		zap.Ints("realized_windows", params.RealizedWindows),
		zap.String("rate_unit", string(params.RateUnit)),
		zap.String("out", cfg.Out),
		zap.String("xlsx", cfg.XLSX),
		zap.Bool("persist", cfg.Persist),
	)

	builder := volstats.NewBuilder(params, src.cache, logger.Named("volstats"))
	asOf := cfg.AsOf
	var rows []model.MetricRow
	if cfg.Latest {
		asOf, rows, err = builder.BuildLatest(ctx)
	} else {
		rows, err = builder.BuildAt(ctx, asOf)
	}
	if err != nil {
		return fmt.Errorf("build table: %w", err)
	}

	logMovers(logger, asOf, rows)

	sinks := []namedSink{{name: "jsonl", sink: storage.NewJsonlStorage(cfg.Out)}}
	if cfg.XLSX != "" {
		opts := report.Options{RichThreshold: cfg.ZScoreRich, CheapThreshold: cfg.ZScoreCheap}
		sinks = append(sinks, namedSink{name: "xlsx", sink: report.NewExcelReport(cfg.XLSX, opts)})
	}
	if cfg.Persist {
		if err := src.store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, namedSink{name: "postgres", sink: src.store})
	}

	for _, s := range sinks {
		if err := s.sink.PutTable(ctx, asOf, rows); err != nil {
			return fmt.Errorf("write %s table: %w", s.name, err)
		}
		logger.Debug("table written", zap.String("sink", s.name), zap.Int("rows", len(rows)))
	}
	return nil
}

type namedSink struct {
	name string
	sink storage.TableSink
}

func logMovers(logger *zap.Logger, asOf time.Time, rows []model.MetricRow) {
	summary := moverSummary(rows)
	if len(summary) == 0 {
		logger.Info("no largest movers", zap.String("as_of", formatDate(asOf)))
		return
	}
	for _, line := range summary {
		logger.Info("largest mover", zap.String("as_of", formatDate(asOf)), zap.String("detail", line))
	}
}

// moverSummary lists flagged rows as "1M × 2Y: 1d, 1m" in table order.
func moverSummary(rows []model.MetricRow) []string {
	var out []string
	for _, row := range rows {
		var horizons []string
		if row.Movers.OneDay {
			horizons = append(horizons, "1d")
		}
		if row.Movers.OneWeek {
			horizons = append(horizons, "1w")
		}
		if row.Movers.OneMonth {
			horizons = append(horizons, "1m")
		}
		if len(horizons) == 0 {
			continue
		}
		out = append(out, row.Label+": "+strings.Join(horizons, ", "))
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(config.DateLayout)
}
