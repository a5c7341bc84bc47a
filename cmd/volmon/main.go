package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	root := &cobra.Command{
		Use:          "volmon",
		Short:        "Swaption vol monitor",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "Build the swaption vol table as of a date",
		RunE:  runTable,
	}

	tableCmd.Flags().String("as-of", "", "as-of date (YYYY-MM-DD)")
	tableCmd.Flags().Bool("latest", false, "build as of the last available implied vol date")
	tableCmd.Flags().String("out", "-", "output JSONL path, - for stdout")
	tableCmd.Flags().String("xlsx", "", "optional Excel report path")
	tableCmd.Flags().Bool("persist", false, "store the table as a Postgres snapshot")
	tableCmd.Flags().Float64("zscore-rich", 1.3, "z-score at or above which a cell reads rich")
	tableCmd.Flags().Float64("zscore-cheap", -1.3, "z-score at or below which a cell reads cheap")
	addSourceFlags(tableCmd.Flags())
	addGridFlags(tableCmd.Flags())
	addLogFlags(tableCmd.Flags())

	root.AddCommand(tableCmd)

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load VolCube and SOFR files into Postgres",
		RunE:  runIngest,
	}

	ingestCmd.Flags().String("vol-dir", "./data/volcube", "directory of atm_timeseries_<year>.json files")
	ingestCmd.Flags().String("sofr-dir", "./data/sofr", "directory of SOFR <n>yr.xlsx workbooks")
	ingestCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	ingestCmd.Flags().Int("batch-size", 1000, "batch size for DB writes")
	addLogFlags(ingestCmd.Flags())

	root.AddCommand(ingestCmd)

	rangeCmd := &cobra.Command{
		Use:   "range",
		Short: "Print the available implied vol date range",
		RunE:  runRange,
	}

	addSourceFlags(rangeCmd.Flags())
	addLogFlags(rangeCmd.Flags())

	root.AddCommand(rangeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("source", "files", "observation source (files, postgres)")
	fs.String("vol-dir", "./data/volcube", "directory of atm_timeseries_<year>.json files")
	fs.String("sofr-dir", "./data/sofr", "directory of SOFR <n>yr.xlsx workbooks")
	fs.String("pg-dsn", "", "Postgres DSN")
	fs.String("redis-addr", "", "optional Redis address for the shared universe cache")
	fs.String("redis-key", "volmon:universe", "Redis key for the cached universe")
	fs.Duration("redis-ttl", 12*time.Hour, "Redis cache TTL, 0 disables expiry")
}

func addGridFlags(fs *pflag.FlagSet) {
	fs.StringSlice("expiries", nil, "option expiries in display order (comma-separated)")
	fs.StringSlice("tenors", nil, "swap tenors in years (comma-separated)")
	fs.StringSlice("realized-windows", nil, "realized vol windows in trading days (comma-separated)")
	fs.Int("trading-days", 252, "trading days per year")
	fs.String("rate-unit", "percent", "swap rate unit (percent, decimal)")
	fs.Bool("annualize", true, "annualize realized vol")
	fs.Int("zscore-window", 60, "trailing observations for the implied vol z-score")
}

func addLogFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "optional rotating JSON log file")
}

func newLogger(level, file string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if file == "" {
		return logger, nil
	}

	rotating := zapcore.AddSync(&lumberjack.Logger{
		Filename: file,
		MaxSize:  100,
		MaxAge:   28,
		Compress: true,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), rotating, cfg.Level)
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}
