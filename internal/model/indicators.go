package model

import (
	"math"
	"time"
)

// Row holds the latest bar's close together with its derived indicators.
type Row struct {
	Date       time.Time
	Close      float64
	EMA20      float64
	EMA50      float64
	BBUpper    float64
	BBLower    float64
	StochK     float64
	StochD     float64
	Support    float64
	Resistance float64
}

// Defined reports whether v holds a computed value.
func Defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
