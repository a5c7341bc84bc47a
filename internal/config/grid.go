package config

import (
	"fmt"

	"github.com/spf13/viper"

	"volMonitor/internal/volstats"
)

// GridConfig holds the table grid and statistics settings shared by the commands.
type GridConfig struct {
	Expiries        []string `validate:"min=1,dive,required"`
	Tenors          []int    `validate:"min=1,dive,gt=0"`
	RealizedWindows []int    `validate:"min=1,dive,gte=2"`
	TradingDays     int      `validate:"gt=0"`
	RateUnit        string   `validate:"oneof=percent decimal"`
	Annualize       bool
	ZScoreWindow    int `validate:"gte=2"`
}

func gridDefaults() map[string]any {
	return map[string]any{
		"expiries":         "1M,3M,6M,1Y,2Y",
		"tenors":           "2,5,10,30",
		"realized-windows": "10,20,60,90,120,180",
		"trading-days":     252,
		"rate-unit":        string(volstats.RatePercent),
		"annualize":        true,
		"zscore-window":    60,
	}
}

func loadGrid(v *viper.Viper) (GridConfig, error) {
	tenors, err := getIntSlice(v, "tenors")
	if err != nil {
		return GridConfig{}, err
	}
	windows, err := getIntSlice(v, "realized-windows")
	if err != nil {
		return GridConfig{}, err
	}
	return GridConfig{
		Expiries:        getStringSlice(v, "expiries"),
		Tenors:          tenors,
		RealizedWindows: windows,
		TradingDays:     v.GetInt("trading-days"),
		RateUnit:        v.GetString("rate-unit"),
		Annualize:       v.GetBool("annualize"),
		ZScoreWindow:    v.GetInt("zscore-window"),
	}, nil
}

// Params converts the grid settings into statistics parameters.
func (g GridConfig) Params() (volstats.Params, error) {
	unit, err := volstats.ParseRateUnit(g.RateUnit)
	if err != nil {
		return volstats.Params{}, err
	}

	p := volstats.DefaultParams()
	p.Expiries = append([]string(nil), g.Expiries...)
	p.Tenors = append([]int(nil), g.Tenors...)
	p.RealizedWindows = append([]int(nil), g.RealizedWindows...)
	p.TradingDaysPerYear = float64(g.TradingDays)
	p.RateUnit = unit
	p.AnnualizeRealized = g.Annualize
	p.ZScoreWindow = g.ZScoreWindow

	if err := p.Validate(); err != nil {
		return volstats.Params{}, fmt.Errorf("grid params: %w", err)
	}
	return p, nil
}
