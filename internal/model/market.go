package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the loaded bars plus the derived indicator columns.
// Every derived column has the same length as Bars; entries without enough
// history are NaN.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV

	EMA20      []float64
	EMA50      []float64
	BBUpper    []float64
	BBMiddle   []float64
	BBLower    []float64
	StochK     []float64
	StochD     []float64
	Support    []float64
	Resistance []float64

	LoadedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close column.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high column.
func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column.
func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}
