package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volMonitor/internal/volstats"
)

func tableFlags(args ...string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("table", pflag.ContinueOnError)
	fs.String("as-of", "", "")
	fs.Bool("latest", false, "")
	fs.String("source", "files", "")
	fs.String("vol-dir", "", "")
	fs.String("sofr-dir", "", "")
	fs.String("pg-dsn", "", "")
	fs.Bool("persist", false, "")
	fs.StringSlice("tenors", nil, "")
	fs.String("rate-unit", "percent", "")
	_ = fs.Parse(args)
	return fs
}

func TestLoadTableDefaults(t *testing.T) {
	cfg, err := LoadTable("", tableFlags("--as-of", "2024-03-15"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), cfg.AsOf)
	assert.Equal(t, SourceFiles, cfg.Source.Kind)
	assert.Equal(t, []string{"1M", "3M", "6M", "1Y", "2Y"}, cfg.Grid.Expiries)
	assert.Equal(t, []int{2, 5, 10, 30}, cfg.Grid.Tenors)
	assert.Equal(t, []int{10, 20, 60, 90, 120, 180}, cfg.Grid.RealizedWindows)
	assert.Equal(t, "-", cfg.Out)
	assert.InDelta(t, 1.3, cfg.ZScoreRich, 1e-12)
	assert.InDelta(t, -1.3, cfg.ZScoreCheap, 1e-12)

	p, err := cfg.Grid.Params()
	require.NoError(t, err)
	assert.Equal(t, volstats.DefaultParams(), p)
}

func TestLoadTableFlagsAndEnv(t *testing.T) {
	t.Setenv("VOLMON_EXPIRIES", "1M, 1Y")
	t.Setenv("VOLMON_TRADING_DAYS", "260")

	cfg, err := LoadTable("", tableFlags("--latest", "--tenors", "5,10", "--rate-unit", "decimal"))
	require.NoError(t, err)

	assert.True(t, cfg.Latest)
	assert.True(t, cfg.AsOf.IsZero())
	assert.Equal(t, []string{"1M", "1Y"}, cfg.Grid.Expiries)
	assert.Equal(t, []int{5, 10}, cfg.Grid.Tenors)

	p, err := cfg.Grid.Params()
	require.NoError(t, err)
	assert.Equal(t, float64(260), p.TradingDaysPerYear)
	assert.Equal(t, volstats.RateDecimal, p.RateUnit)
}

func TestLoadTableConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volmon.yaml")
	body := "as-of: \"2024-02-01\"\nexpiries: [3M, 6M]\ntenors: [2, 30]\nsource: postgres\npg-dsn: postgres://localhost/vol\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadTable(path, nil)
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.Source.Kind)
	assert.Equal(t, []string{"3M", "6M"}, cfg.Grid.Expiries)
	assert.Equal(t, []int{2, 30}, cfg.Grid.Tenors)
}

func TestLoadTableValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing as-of", nil, "--as-of is required"},
		{"bad date", []string{"--as-of", "15/03/2024"}, "parse date"},
		{"unknown source", []string{"--as-of", "2024-03-15", "--source", "s3"}, "Kind: oneof"},
		{"postgres without dsn", []string{"--latest", "--source", "postgres"}, "PGDSN: required_if"},
		{"persist without dsn", []string{"--latest", "--persist"}, "--persist requires --pg-dsn"},
		{"bad tenor", []string{"--latest", "--tenors", "2,ten"}, "not an integer"},
		{"bad rate unit", []string{"--latest", "--rate-unit", "bps"}, "RateUnit: oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable("", tableFlags(tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadIngest(t *testing.T) {
	fs := pflag.NewFlagSet("ingest", pflag.ContinueOnError)
	fs.String("pg-dsn", "", "")
	fs.Int("batch-size", 1000, "")
	require.NoError(t, fs.Parse([]string{"--pg-dsn", "postgres://localhost/vol", "--batch-size", "250"}))

	cfg, err := LoadIngest("", fs)
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.Equal(t, "./data/volcube", cfg.VolDir)

	_, err = LoadIngest("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PGDSN: required")
}

func TestLoadRange(t *testing.T) {
	cfg, err := LoadRange("", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceFiles, cfg.Source.Kind)
	assert.Equal(t, 12*time.Hour, cfg.Source.RedisTTL)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-15T18:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate(" ")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
