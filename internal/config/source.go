package config

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	SourceFiles    = "files"
	SourcePostgres = "postgres"
)

// SourceConfig selects where observations are loaded from.
type SourceConfig struct {
	Kind      string `validate:"oneof=files postgres"`
	VolDir    string `validate:"required_if=Kind files"`
	SOFRDir   string `validate:"required_if=Kind files"`
	PGDSN     string `validate:"required_if=Kind postgres"`
	RedisAddr string
	RedisKey  string
	RedisTTL  time.Duration `validate:"gte=0"`
}

func sourceDefaults() map[string]any {
	return map[string]any{
		"source":    SourceFiles,
		"vol-dir":   "./data/volcube",
		"sofr-dir":  "./data/sofr",
		"redis-key": "volmon:universe",
		"redis-ttl": 12 * time.Hour,
	}
}

func loadSource(v *viper.Viper) SourceConfig {
	return SourceConfig{
		Kind:      v.GetString("source"),
		VolDir:    v.GetString("vol-dir"),
		SOFRDir:   v.GetString("sofr-dir"),
		PGDSN:     v.GetString("pg-dsn"),
		RedisAddr: v.GetString("redis-addr"),
		RedisKey:  v.GetString("redis-key"),
		RedisTTL:  v.GetDuration("redis-ttl"),
	}
}

// RangeConfig holds configuration for the range command.
type RangeConfig struct {
	Source   SourceConfig
	LogLevel string
	LogFile  string
}

// LoadRange merges config file, environment variables, and flags into RangeConfig.
func LoadRange(cfgFile string, flags *pflag.FlagSet) (RangeConfig, error) {
	defaults := merge(sourceDefaults(), map[string]any{
		"log-level": "info",
	})
	v, err := newViper(cfgFile, flags, defaults)
	if err != nil {
		return RangeConfig{}, err
	}

	cfg := RangeConfig{
		Source:   loadSource(v),
		LogLevel: v.GetString("log-level"),
		LogFile:  v.GetString("log-file"),
	}
	if err := check(cfg); err != nil {
		return RangeConfig{}, err
	}
	return cfg, nil
}

func merge(maps ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
