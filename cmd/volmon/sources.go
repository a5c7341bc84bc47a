package main

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"volMonitor/internal/config"
	"volMonitor/internal/source"
	"volMonitor/internal/storage/postgres"
	"volMonitor/internal/universe"
)

// sources owns the connections a command opens for loading observations.
type sources struct {
	cache *universe.Cache
	store *postgres.Store
	redis *universe.RedisStore
}

func openSources(ctx context.Context, cfg config.SourceConfig, needStore bool, logger *zap.Logger) (*sources, error) {
	s := &sources{}

	if cfg.Kind == config.SourcePostgres || needStore {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.store = store
		logger.Info("postgres connected", zap.String("dsn", redactDSN(cfg.PGDSN)))
	}

	var loader universe.Loader
	switch cfg.Kind {
	case config.SourcePostgres:
		loader = s.store
	default:
		loader = source.NewFileLoader(cfg.VolDir, cfg.SOFRDir, logger)
	}

	opts := []universe.Option{universe.WithLogger(logger.Named("universe"))}
	if cfg.RedisAddr != "" {
		rs, err := universe.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisKey, cfg.RedisTTL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.redis = rs
		opts = append(opts, universe.WithStore(rs))
	}
	s.cache = universe.NewCache(loader, opts...)
	return s, nil
}

func (s *sources) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "<redacted>"
	}
	return u.Redacted()
}
