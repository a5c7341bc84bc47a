package source

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"volMonitor/internal/model"
)

// FileLoader loads the observation universe from VolCube and SOFR files.
type FileLoader struct {
	vol  *VolCubeLoader
	sofr *SOFRLoader
}

func NewFileLoader(volDir, sofrDir string, logger *zap.Logger) *FileLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileLoader{
		vol:  &VolCubeLoader{Dir: volDir, Logger: logger.Named("volcube")},
		sofr: &SOFRLoader{Dir: sofrDir, Logger: logger.Named("sofr")},
	}
}

// Load reads implied vols and swap rates concurrently.
func (l *FileLoader) Load(ctx context.Context) (model.Universe, error) {
	var universe model.Universe
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs, err := l.vol.Load(ctx)
		if err != nil {
			return fmt.Errorf("load implied vols: %w", err)
		}
		universe.Vol = obs
		return nil
	})
	g.Go(func() error {
		obs, err := l.sofr.Load(ctx)
		if err != nil {
			return fmt.Errorf("load swap rates: %w", err)
		}
		universe.Rates = obs
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Universe{}, err
	}
	return universe, nil
}
