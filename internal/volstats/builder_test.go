package volstats

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"volMonitor/internal/model"
)

type staticSource struct {
	universe model.Universe
	err      error
	calls    int
}

func (s *staticSource) Get(context.Context) (model.Universe, error) {
	s.calls++
	return s.universe, s.err
}

func TestBuilderBuildLatest(t *testing.T) {
	vol := volObs("1M", 2, ramp(40, 50, 1)...)
	rates := rateObs(2, constant(40, 4)...)
	source := &staticSource{universe: model.Universe{Vol: vol, Rates: rates}}

	b := NewBuilder(DefaultParams(), source, zap.NewNop())
	asOf, rows, err := b.BuildLatest(context.Background())
	if err != nil {
		t.Fatalf("build latest: %v", err)
	}
	if !asOf.Equal(day(39)) {
		t.Fatalf("latest date mismatch: %s", asOf)
	}
	if len(rows) != 1 || rows[0].Annualized.Current != 89 {
		t.Fatalf("latest row mismatch: %+v", rows)
	}

	rows, err = b.BuildAt(context.Background(), day(10))
	if err != nil {
		t.Fatalf("build at: %v", err)
	}
	if rows[0].Annualized.Current != 60 {
		t.Fatalf("as-of row mismatch: %+v", rows[0].Annualized)
	}
	if source.calls != 2 {
		t.Fatalf("expected 2 source calls, got %d", source.calls)
	}
}

func TestBuilderSourceError(t *testing.T) {
	loadErr := errors.New("boom")
	b := NewBuilder(DefaultParams(), &staticSource{err: loadErr}, nil)

	if _, err := b.BuildAt(context.Background(), day(0)); !errors.Is(err, loadErr) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
	if _, _, err := b.BuildLatest(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestBuilderEmptyUniverse(t *testing.T) {
	b := NewBuilder(DefaultParams(), &staticSource{}, nil)
	if _, _, err := b.BuildLatest(context.Background()); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
