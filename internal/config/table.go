package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// TableConfig holds configuration for the table command.
type TableConfig struct {
	Source      SourceConfig
	Grid        GridConfig
	AsOf        time.Time
	Latest      bool
	Out         string
	XLSX        string
	Persist     bool
	ZScoreRich  float64 `validate:"gt=0"`
	ZScoreCheap float64 `validate:"lt=0"`
	LogLevel    string
	LogFile     string
}

// LoadTable merges config file, environment variables, and flags into TableConfig.
func LoadTable(cfgFile string, flags *pflag.FlagSet) (TableConfig, error) {
	defaults := merge(sourceDefaults(), gridDefaults(), map[string]any{
		"out":          "-",
		"zscore-rich":  1.3,
		"zscore-cheap": -1.3,
		"log-level":    "info",
	})
	v, err := newViper(cfgFile, flags, defaults)
	if err != nil {
		return TableConfig{}, err
	}

	grid, err := loadGrid(v)
	if err != nil {
		return TableConfig{}, err
	}
	asOf, err := ParseDate(v.GetString("as-of"))
	if err != nil {
		return TableConfig{}, err
	}

	cfg := TableConfig{
		Source:      loadSource(v),
		Grid:        grid,
		AsOf:        asOf,
		Latest:      v.GetBool("latest"),
		Out:         v.GetString("out"),
		XLSX:        v.GetString("xlsx"),
		Persist:     v.GetBool("persist"),
		ZScoreRich:  v.GetFloat64("zscore-rich"),
		ZScoreCheap: v.GetFloat64("zscore-cheap"),
		LogLevel:    v.GetString("log-level"),
		LogFile:     v.GetString("log-file"),
	}
	if err := check(cfg); err != nil {
		return TableConfig{}, err
	}
	if cfg.AsOf.IsZero() && !cfg.Latest {
		return TableConfig{}, fmt.Errorf("invalid config: --as-of is required unless --latest is set")
	}
	if cfg.Persist && cfg.Source.PGDSN == "" {
		return TableConfig{}, fmt.Errorf("invalid config: --persist requires --pg-dsn")
	}
	return cfg, nil
}
