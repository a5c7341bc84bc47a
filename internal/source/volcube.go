package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"volMonitor/internal/model"
)

const (
	volCubePattern = "atm_timeseries_*.json"
	expiryField    = "Option Tenor"
	volCubeLayout  = "2006-01-02"
)

// VolCubeLoader reads VolCube ATM normal vol time series files from a directory,
// one file per calendar year.
type VolCubeLoader struct {
	Dir         string
	Logger      *zap.Logger
	Concurrency int
}

// Load reads every year file in Dir and returns the observations ordered by
// date, expiry and tenor.
func (l *VolCubeLoader) Load(ctx context.Context) ([]model.VolObservation, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := filepath.Glob(filepath.Join(l.Dir, volCubePattern))
	if err != nil {
		return nil, fmt.Errorf("glob volcube files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no volcube files in %s", l.Dir)
	}
	sort.Strings(paths)

	results := make([][]model.VolObservation, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			obs, err := ReadVolCubeFile(path)
			if err != nil {
				return err
			}
			results[i] = obs
			logger.Debug("volcube file loaded", zap.String("path", path), zap.Int("observations", len(obs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.VolObservation
	for _, obs := range results {
		out = append(out, obs...)
	}
	sortVol(out)
	logger.Info("volcube loaded", zap.Int("files", len(paths)), zap.Int("observations", len(out)))
	return out, nil
}

// ReadVolCubeFile parses one year file shaped as
// {"YYYY-MM-DD": [{"Option Tenor": "1M", "1Y": 85.1, ...}, ...]}.
// Unparseable dates, tenors and non-numeric vols are skipped.
func ReadVolCubeFile(path string) ([]model.VolObservation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read volcube file: %w", err)
	}

	var doc map[string][]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode volcube file %s: %w", filepath.Base(path), err)
	}

	var out []model.VolObservation
	for dateStr, quotes := range doc {
		date, err := time.Parse(volCubeLayout, dateStr)
		if err != nil {
			continue
		}
		for _, quote := range quotes {
			expiry := stringField(quote[expiryField])
			if expiry == "" {
				continue
			}
			for field, value := range quote {
				if field == expiryField {
					continue
				}
				tenor, ok := parseTenor(field)
				if !ok {
					continue
				}
				var vol *float64
				if err := json.Unmarshal(value, &vol); err != nil || vol == nil {
					continue
				}
				out = append(out, model.VolObservation{
					Date:   date,
					Expiry: expiry,
					Tenor:  tenor,
					Vol:    *vol,
				})
			}
		}
	}
	sortVol(out)
	return out, nil
}

func stringField(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// parseTenor reads swap tenor labels such as "10Y".
func parseTenor(label string) (int, bool) {
	label = strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(label)), "Y")
	n, err := strconv.Atoi(label)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func sortVol(obs []model.VolObservation) {
	sort.SliceStable(obs, func(i, j int) bool {
		a, b := obs[i], obs[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Expiry != b.Expiry {
			return a.Expiry < b.Expiry
		}
		return a.Tenor < b.Tenor
	})
}
