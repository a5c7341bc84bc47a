package universe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volMonitor/internal/model"
)

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (l *countingLoader) Load(context.Context) (model.Universe, error) {
	n := l.calls.Add(1)
	if l.err != nil {
		return model.Universe{}, l.err
	}
	return model.Universe{Vol: []model.VolObservation{{
		Date:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Expiry: "1M",
		Tenor:  2,
		Vol:    float64(n),
	}}}, nil
}

type memStore struct {
	data    *model.Universe
	puts    int
	deletes int
	getErr  error
}

func (s *memStore) Get(context.Context) (model.Universe, error) {
	if s.getErr != nil {
		return model.Universe{}, s.getErr
	}
	if s.data == nil {
		return model.Universe{}, ErrMiss
	}
	return *s.data, nil
}

func (s *memStore) Put(_ context.Context, u model.Universe) error {
	s.puts++
	s.data = &u
	return nil
}

func (s *memStore) Delete(context.Context) error {
	s.deletes++
	s.data = nil
	return nil
}

func TestCacheLoadsOnce(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := cache.Get(context.Background())
			assert.NoError(t, err)
			assert.Len(t, u.Vol, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestCacheClearAndReload(t *testing.T) {
	loader := &countingLoader{}
	cache := NewCache(loader)
	ctx := context.Background()

	u, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, u.Vol[0].Vol)

	require.NoError(t, cache.Clear(ctx))
	u, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, u.Vol[0].Vol)

	u, err = cache.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, u.Vol[0].Vol)

	u, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, u.Vol[0].Vol)
	assert.Equal(t, int32(3), loader.calls.Load())
}

func TestCacheUsesStore(t *testing.T) {
	loader := &countingLoader{}
	store := &memStore{}
	ctx := context.Background()

	first := NewCache(loader, WithStore(store))
	_, err := first.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.puts)

	second := NewCache(loader, WithStore(store), WithLogger(nil))
	u, err := second.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, u.Vol[0].Vol)
	assert.Equal(t, int32(1), loader.calls.Load(), "second cache should read the shared tier")

	u, err = second.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, u.Vol[0].Vol)
	assert.Equal(t, 1, store.deletes)
	assert.Equal(t, 2, store.puts)
}

func TestCacheFallsBackWhenStoreFails(t *testing.T) {
	loader := &countingLoader{}
	store := &memStore{getErr: errors.New("connection refused")}

	u, err := NewCache(loader, WithStore(store)).Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, u.Vol, 1)
	assert.Equal(t, int32(1), loader.calls.Load())
}

func TestCacheLoaderError(t *testing.T) {
	loadErr := errors.New("disk gone")
	cache := NewCache(&countingLoader{err: loadErr})

	_, err := cache.Get(context.Background())
	require.ErrorIs(t, err, loadErr)

	_, err = cache.Get(context.Background())
	require.ErrorIs(t, err, loadErr, "failed loads are not cached")
}
