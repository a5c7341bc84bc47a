package config

import (
	"github.com/spf13/pflag"
)

// IngestConfig holds configuration for the ingest command.
type IngestConfig struct {
	VolDir    string `validate:"required"`
	SOFRDir   string `validate:"required"`
	PGDSN     string `validate:"required"`
	BatchSize int    `validate:"gt=0"`
	LogLevel  string
	LogFile   string
}

// LoadIngest merges config file, environment variables, and flags into IngestConfig.
func LoadIngest(cfgFile string, flags *pflag.FlagSet) (IngestConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"vol-dir":    "./data/volcube",
		"sofr-dir":   "./data/sofr",
		"batch-size": 1000,
		"log-level":  "info",
	})
	if err != nil {
		return IngestConfig{}, err
	}

	cfg := IngestConfig{
		VolDir:    v.GetString("vol-dir"),
		SOFRDir:   v.GetString("sofr-dir"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		LogLevel:  v.GetString("log-level"),
		LogFile:   v.GetString("log-file"),
	}
	if err := check(cfg); err != nil {
		return IngestConfig{}, err
	}
	return cfg, nil
}
