package calculator

import (
	"errors"
	"fmt"

	"SignalSentinel/internal/model"
)

// Indicator parameters used by the swing and range rules.
const (
	EMAFastPeriod   = 20
	EMASlowPeriod   = 50
	BollingerWindow = 20
	BollingerK      = 2.0
	StochWindow     = 14
	StochSmooth     = 3
	RangeWindow     = 20

	// MinBars is the shortest series every indicator is defined on (EMA50).
	MinBars = EMASlowPeriod
)

// ErrInsufficientData is returned when the series is too short for the
// indicators the rules depend on.
var ErrInsufficientData = errors.New("insufficient data")

// Compute fills every derived column of series.
func Compute(series *model.PriceSeries) error {
	if series == nil {
		return fmt.Errorf("%w: nil series", ErrInsufficientData)
	}
	if n := series.Len(); n < MinBars {
		return fmt.Errorf("%w: have %d bars, need at least %d", ErrInsufficientData, n, MinBars)
	}

	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()

	series.EMA20 = EMA(closes, EMAFastPeriod)
	series.EMA50 = EMA(closes, EMASlowPeriod)

	bands := Bollinger(closes, BollingerWindow, BollingerK)
	series.BBUpper = bands.Upper
	series.BBMiddle = bands.Middle
	series.BBLower = bands.Lower

	series.StochK, series.StochD = Stochastic(highs, lows, closes, StochWindow, StochSmooth)

	series.Support = Support(lows, RangeWindow)
	series.Resistance = Resistance(highs, RangeWindow)
	return nil
}

// Latest returns the last row of a computed series.
// The stochastic pair may still be NaN on a flat window; every other column
// must be defined.
func Latest(series *model.PriceSeries) (model.Row, error) {
	if series == nil || series.Len() == 0 {
		return model.Row{}, fmt.Errorf("%w: empty series", ErrInsufficientData)
	}
	if len(series.EMA50) != series.Len() {
		return model.Row{}, errors.New("indicators not computed")
	}
	i := series.Len() - 1
	bar := series.Bars[i]
	row := model.Row{
		Date:       bar.Time,
		Close:      bar.Close,
		EMA20:      series.EMA20[i],
		EMA50:      series.EMA50[i],
		BBUpper:    series.BBUpper[i],
		BBLower:    series.BBLower[i],
		StochK:     series.StochK[i],
		StochD:     series.StochD[i],
		Support:    series.Support[i],
		Resistance: series.Resistance[i],
	}

	required := []struct {
		name  string
		value float64
	}{
		{"ema20", row.EMA20},
		{"ema50", row.EMA50},
		{"bb_upper", row.BBUpper},
		{"bb_lower", row.BBLower},
		{"support", row.Support},
		{"resistance", row.Resistance},
	}
	for _, r := range required {
		if !model.Defined(r.value) {
			return row, fmt.Errorf("%w: %s undefined at %s", ErrInsufficientData, r.name, bar.Time.Format("2006-01-02"))
		}
	}
	return row, nil
}
