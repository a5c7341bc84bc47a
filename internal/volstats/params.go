package volstats

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDateRange is returned when the as-of date lies outside the loaded universe.
	ErrInvalidDateRange = errors.New("as-of date outside available data")
	// ErrInvalidParams is returned for a grid or window configuration that cannot be evaluated.
	ErrInvalidParams = errors.New("invalid parameters")
)

// RateUnit declares how swap rates are quoted.
type RateUnit string

const (
	RatePercent RateUnit = "percent"
	RateDecimal RateUnit = "decimal"
)

// ParseRateUnit parses "percent" or "decimal".
func ParseRateUnit(input string) (RateUnit, error) {
	switch RateUnit(strings.ToLower(strings.TrimSpace(input))) {
	case RatePercent, "":
		return RatePercent, nil
	case RateDecimal:
		return RateDecimal, nil
	default:
		return "", fmt.Errorf("%w: unknown rate unit %q", ErrInvalidParams, input)
	}
}

// bpScale converts a rate difference into basis points.
func (u RateUnit) bpScale() float64 {
	if u == RateDecimal {
		return 10000
	}
	return 100
}

// MoverSpec is a change period and the lookback it is ranked against.
type MoverSpec struct {
	Period   int
	Lookback int
	// MinHistory is the shortest series the detection is evaluated on. Shorter series are
	// never flagged.
	MinHistory int
}

// MoverWindows holds the three mover detections.
type MoverWindows struct {
	OneDay   MoverSpec
	OneWeek  MoverSpec
	OneMonth MoverSpec
}

// Params configures table construction.
type Params struct {
	// Expiries is ordered: it filters rows and defines their rank.
	Expiries           []string
	Tenors             []int
	RealizedWindows    []int
	TradingDaysPerYear float64
	HighLowWindow      int
	MinHistory         int
	RateUnit           RateUnit
	AnnualizeRealized  bool
	Movers             MoverWindows
	ZScoreWindow       int
}

// DefaultParams returns the standard 5 x 4 grid.
func DefaultParams() Params {
	return Params{
		Expiries:           []string{"1M", "3M", "6M", "1Y", "2Y"},
		Tenors:             []int{2, 5, 10, 30},
		RealizedWindows:    []int{10, 20, 60, 90, 120, 180},
		TradingDaysPerYear: 252,
		HighLowWindow:      20,
		MinHistory:         5,
		RateUnit:           RatePercent,
		AnnualizeRealized:  true,
		Movers:             DefaultMoverWindows(),
		ZScoreWindow:       60,
	}
}

// DefaultMoverWindows returns 1d over 10, 1w over 20 and 1m over 120 observations.
func DefaultMoverWindows() MoverWindows {
	return MoverWindows{
		OneDay:   MoverSpec{Period: 1, Lookback: 10, MinHistory: 11},
		OneWeek:  MoverSpec{Period: 5, Lookback: 20, MinHistory: 26},
		OneMonth: MoverSpec{Period: 20, Lookback: 120, MinHistory: 141},
	}
}

// Validate checks that the parameters can be evaluated.
func (p Params) Validate() error {
	if len(p.Expiries) == 0 {
		return fmt.Errorf("%w: expiry list is empty", ErrInvalidParams)
	}
	if len(p.Tenors) == 0 {
		return fmt.Errorf("%w: tenor list is empty", ErrInvalidParams)
	}
	if len(p.RealizedWindows) == 0 {
		return fmt.Errorf("%w: realized window list is empty", ErrInvalidParams)
	}
	for _, w := range p.RealizedWindows {
		if w < 2 {
			return fmt.Errorf("%w: realized window %d must be >= 2", ErrInvalidParams, w)
		}
	}
	if p.TradingDaysPerYear <= 0 {
		return fmt.Errorf("%w: trading days per year must be positive", ErrInvalidParams)
	}
	if p.HighLowWindow <= 0 {
		return fmt.Errorf("%w: high/low window must be positive", ErrInvalidParams)
	}
	if p.MinHistory < 2 {
		return fmt.Errorf("%w: min history must be >= 2", ErrInvalidParams)
	}
	for _, spec := range []MoverSpec{p.Movers.OneDay, p.Movers.OneWeek, p.Movers.OneMonth} {
		if spec.Period <= 0 || spec.Lookback <= 0 {
			return fmt.Errorf("%w: mover period and lookback must be positive", ErrInvalidParams)
		}
		if spec.MinHistory <= spec.Period {
			return fmt.Errorf("%w: mover min history %d must exceed period %d", ErrInvalidParams, spec.MinHistory, spec.Period)
		}
	}
	return nil
}

func (p Params) maxWindow() int {
	max := 0
	for _, w := range p.RealizedWindows {
		if w > max {
			max = w
		}
	}
	return max
}
