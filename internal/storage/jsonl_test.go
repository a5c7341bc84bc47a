package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volMonitor/internal/model"
)

func sampleRows() []model.MetricRow {
	asOf := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return []model.MetricRow{
		{
			Expiry:     "1M",
			Tenor:      2,
			Label:      "1M × 2Y",
			AsOf:       asOf,
			ObservedAt: asOf,
			Annualized: model.ImpliedLevels{Current: 101.5, Change1D: 1, Change1W: math.NaN(), Change1M: math.NaN(), High: 101.5, Low: 99},
			Realized:   []model.RealizedVol{{Window: 10, Vol: 88.2}, {Window: 180, Vol: math.NaN()}},
			ZScore:     math.NaN(),
		},
		{
			Expiry:     "1Y",
			Tenor:      10,
			Label:      "1Y × 10Y",
			AsOf:       asOf,
			ObservedAt: asOf.AddDate(0, 0, -1),
			Movers:     model.MoverFlags{OneDay: true},
		},
	}
}

func TestJsonlStoragePutTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "table.jsonl")
	s := NewJsonlStorage(path)

	require.NoError(t, s.PutTable(context.Background(), time.Time{}, sampleRows()))
	require.NoError(t, s.PutTable(context.Background(), time.Time{}, sampleRows()[:1]))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 1, "a second table replaces the first")
	assert.Equal(t, "1M × 2Y", lines[0]["label"])
	assert.Equal(t, "2024-03-15", lines[0]["as_of"])
	assert.Nil(t, lines[0]["zscore"])
}

func TestJsonlStorageStdout(t *testing.T) {
	var buf bytes.Buffer
	s := NewJsonlStorage(Stdout)
	s.stdout = &buf

	require.NoError(t, s.PutTable(context.Background(), time.Time{}, sampleRows()))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), `"largest_1d":true`)
}
