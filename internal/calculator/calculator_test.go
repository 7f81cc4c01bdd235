package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 0.3*float64(i) + 8*math.Sin(float64(i)/5)
	}
	return out
}

func seriesFromCloses(closes []float64) *model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Bars: bars}
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestEMA_ConstantSeries(t *testing.T) {
	ema := EMA(constant(80, 42.5), 20)
	for i := 0; i < 19; i++ {
		assert.True(t, math.IsNaN(ema[i]), "index %d should be undefined", i)
	}
	for i := 19; i < len(ema); i++ {
		assert.InDelta(t, 42.5, ema[i], 1e-9, "index %d", i)
	}
}

func TestEMA_SeedIsSimpleAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	ema := EMA(values, 3)
	assert.InDelta(t, 2.0, ema[2], 1e-12)
	// alpha = 0.5
	assert.InDelta(t, 3.0, ema[3], 1e-12)
	assert.InDelta(t, 4.0, ema[4], 1e-12)
	assert.InDelta(t, 5.0, ema[5], 1e-12)
}

func TestEMA_ShortInputIsUndefined(t *testing.T) {
	ema := EMA([]float64{1, 2, 3}, 5)
	require.Len(t, ema, 3)
	for _, v := range ema {
		assert.True(t, math.IsNaN(v))
	}
}

func TestEMA_MatchesTalib(t *testing.T) {
	closes := wave(200)
	for _, period := range []int{EMAFastPeriod, EMASlowPeriod} {
		ours := EMA(closes, period)
		ref := talib.Ema(closes, period)
		for i := period - 1; i < len(closes); i++ {
			assert.InDelta(t, ref[i], ours[i], 1e-9, "period %d index %d", period, i)
		}
	}
}

func TestStdDev_Population(t *testing.T) {
	sd := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	assert.InDelta(t, 2.0, sd[7], 1e-12)
}

func TestBollinger_ConstantCollapses(t *testing.T) {
	bands := Bollinger(constant(40, 17), BollingerWindow, BollingerK)
	for i := BollingerWindow - 1; i < 40; i++ {
		assert.InDelta(t, 17.0, bands.Upper[i], 1e-12)
		assert.InDelta(t, 17.0, bands.Middle[i], 1e-12)
		assert.InDelta(t, 17.0, bands.Lower[i], 1e-12)
	}
	assert.True(t, math.IsNaN(bands.Upper[BollingerWindow-2]))
}

func TestBollinger_MatchesTalib(t *testing.T) {
	closes := wave(150)
	bands := Bollinger(closes, BollingerWindow, BollingerK)
	upper, middle, lower := talib.BBands(closes, BollingerWindow, BollingerK, BollingerK, talib.SMA)
	for i := BollingerWindow - 1; i < len(closes); i++ {
		assert.InDelta(t, middle[i], bands.Middle[i], 1e-6, "middle %d", i)
		assert.InDelta(t, upper[i], bands.Upper[i], 1e-6, "upper %d", i)
		assert.InDelta(t, lower[i], bands.Lower[i], 1e-6, "lower %d", i)
	}
}

func TestStochastic_CloseAtHighestHigh(t *testing.T) {
	n := 30
	highs, lows, closes := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		lows[i] = float64(i)
		highs[i] = float64(i) + 2
		closes[i] = highs[i]
	}
	k, d := Stochastic(highs, lows, closes, StochWindow, StochSmooth)
	for i := StochWindow - 1; i < n; i++ {
		assert.InDelta(t, 100.0, k[i], 1e-12, "index %d", i)
	}
	assert.True(t, math.IsNaN(k[StochWindow-2]))
	assert.True(t, math.IsNaN(d[StochWindow]))
	assert.InDelta(t, 100.0, d[StochWindow+1], 1e-12)
}

func TestStochastic_CloseAtLowestLow(t *testing.T) {
	n := 30
	highs, lows, closes := make([]float64, n), make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		lows[i] = 100 - float64(i)
		highs[i] = lows[i] + 2
		closes[i] = lows[i]
	}
	k, _ := Stochastic(highs, lows, closes, StochWindow, StochSmooth)
	for i := StochWindow - 1; i < n; i++ {
		assert.InDelta(t, 0.0, k[i], 1e-12, "index %d", i)
	}
}

func TestStochastic_FlatWindowIsUndefined(t *testing.T) {
	flat := constant(20, 10)
	k, d := Stochastic(flat, flat, flat, StochWindow, StochSmooth)
	for i := range k {
		assert.True(t, math.IsNaN(k[i]))
		assert.True(t, math.IsNaN(d[i]))
	}
}

func TestSupportResistance(t *testing.T) {
	lows := []float64{5, 4, 6, 3, 7, 8}
	highs := []float64{9, 12, 10, 11, 13, 9}
	support := Support(lows, 3)
	resistance := Resistance(highs, 3)

	assert.True(t, math.IsNaN(support[0]))
	assert.True(t, math.IsNaN(support[1]))
	assert.Equal(t, []float64{4, 3, 3, 3}, support[2:])
	assert.Equal(t, []float64{12, 12, 13, 13}, resistance[2:])
}

func TestCompute_InsufficientData(t *testing.T) {
	series := seriesFromCloses(wave(MinBars - 1))
	err := Compute(series)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Latest(&model.PriceSeries{})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCompute_FillsAlignedColumns(t *testing.T) {
	series := seriesFromCloses(wave(MinBars))
	require.NoError(t, Compute(series))

	n := series.Len()
	for _, col := range [][]float64{
		series.EMA20, series.EMA50, series.BBUpper, series.BBMiddle, series.BBLower,
		series.StochK, series.StochD, series.Support, series.Resistance,
	} {
		assert.Len(t, col, n)
	}
	assert.True(t, math.IsNaN(series.EMA50[n-2]))
	assert.False(t, math.IsNaN(series.EMA50[n-1]))
	assert.True(t, math.IsNaN(series.Support[RangeWindow-2]))

	row, err := Latest(series)
	require.NoError(t, err)
	assert.Equal(t, series.Bars[n-1].Close, row.Close)
	assert.Equal(t, series.Bars[n-1].Time, row.Date)
	assert.Equal(t, series.EMA20[n-1], row.EMA20)
	assert.True(t, model.Defined(row.StochK))
	assert.True(t, model.Defined(row.StochD))
}

func TestLatest_RequiresCompute(t *testing.T) {
	_, err := Latest(seriesFromCloses(wave(60)))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientData)
}
