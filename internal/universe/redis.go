package universe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"volMonitor/internal/model"
)

// RedisStore keeps a JSON copy of the universe under one key.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, key string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client, key: key, ttl: ttl}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Get(ctx context.Context) (model.Universe, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Universe{}, ErrMiss
		}
		return model.Universe{}, fmt.Errorf("redis get: %w", err)
	}
	var u model.Universe
	if err := json.Unmarshal(data, &u); err != nil {
		return model.Universe{}, fmt.Errorf("decode universe: %w", err)
	}
	return u, nil
}

func (s *RedisStore) Put(ctx context.Context, u model.Universe) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode universe: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Unlink(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis unlink: %w", err)
	}
	return nil
}
