package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"volMonitor/internal/config"
	"volMonitor/internal/volstats"
)

func runRange(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRange(cfgFile, cmd.Flags())
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

	src, err := openSources(ctx, cfg.Source, false, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	u, err := src.cache.Get(ctx)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}
	first, last, ok := u.DateRange()
	if !ok {
		return fmt.Errorf("%w: no implied vol observations loaded", volstats.ErrInvalidDateRange)
	}

	logger.Info("date range",
		zap.String("first", formatDate(first)),
		zap.String("last", formatDate(last)),
		zap.Int("vol_observations", len(u.Vol)),
		zap.Int("rate_observations", len(u.Rates)),
		zap.String("last_rate_date", formatDate(lastRateDate(u.Rates))),
	)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatDate(first), formatDate(last))
	return err
}
