package universe

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"volMonitor/internal/model"
)

// ErrMiss is returned by a Store that holds no universe.
var ErrMiss = errors.New("universe not cached")

// Loader reads the observation universe from its primary source.
type Loader interface {
	Load(ctx context.Context) (model.Universe, error)
}

// Store is an optional second cache tier shared across processes.
type Store interface {
	Get(ctx context.Context) (model.Universe, error)
	Put(ctx context.Context, u model.Universe) error
	Delete(ctx context.Context) error
}

// Cache holds the loaded universe in memory. It loads at most once until
// Clear or Reload is called and is safe for concurrent use.
type Cache struct {
	loader Loader
	store  Store
	logger *zap.Logger

	mu     sync.RWMutex
	data   model.Universe
	loaded bool
}

type Option func(*Cache)

// WithStore adds a shared tier consulted before the loader.
func WithStore(store Store) Option {
	return func(c *Cache) { c.store = store }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewCache(loader Loader, opts ...Option) *Cache {
	c := &Cache{loader: loader, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached universe, loading it on first use.
func (c *Cache) Get(ctx context.Context) (model.Universe, error) {
	c.mu.RLock()
	if c.loaded {
		data := c.data
		c.mu.RUnlock()
		return data, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.data, nil
	}
	return c.fill(ctx, true)
}

// Reload drops every tier and loads from the primary source.
func (c *Cache) Reload(ctx context.Context) (model.Universe, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.clear(ctx); err != nil {
		return model.Universe{}, err
	}
	return c.fill(ctx, false)
}

// Clear drops the memory copy and the shared tier.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clear(ctx)
}

func (c *Cache) clear(ctx context.Context) error {
	c.data = model.Universe{}
	c.loaded = false
	if c.store == nil {
		return nil
	}
	if err := c.store.Delete(ctx); err != nil {
		return fmt.Errorf("clear universe store: %w", err)
	}
	return nil
}

// fill must be called with mu held.
func (c *Cache) fill(ctx context.Context, useStore bool) (model.Universe, error) {
	if c.store != nil && useStore {
		data, err := c.store.Get(ctx)
		switch {
		case err == nil:
			c.set(data)
			c.logger.Debug("universe loaded from store", zap.Int("vol", len(data.Vol)), zap.Int("rates", len(data.Rates)))
			return data, nil
		case errors.Is(err, ErrMiss):
		default:
			c.logger.Warn("universe store read failed", zap.Error(err))
		}
	}

	if c.loader == nil {
		return model.Universe{}, fmt.Errorf("loader is nil")
	}
	data, err := c.loader.Load(ctx)
	if err != nil {
		return model.Universe{}, err
	}
	c.set(data)
	c.logger.Info("universe loaded", zap.Int("vol", len(data.Vol)), zap.Int("rates", len(data.Rates)))

	if c.store != nil {
		if err := c.store.Put(ctx, data); err != nil {
			c.logger.Warn("universe store write failed", zap.Error(err))
		}
	}
	return data, nil
}

func (c *Cache) set(data model.Universe) {
	c.data = data
	c.loaded = true
}
