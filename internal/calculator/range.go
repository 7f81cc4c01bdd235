package calculator

import "math"

// RollingMin returns the minimum of values over a trailing window.
// The first window-1 entries are NaN.
func RollingMin(values []float64, window int) []float64 {
	out := undefined(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		low := math.Inf(1)
		for j := i - window + 1; j <= i; j++ {
			if values[j] < low {
				low = values[j]
			}
		}
		out[i] = low
	}
	return out
}

// RollingMax returns the maximum of values over a trailing window.
// The first window-1 entries are NaN.
func RollingMax(values []float64, window int) []float64 {
	out := undefined(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		high := math.Inf(-1)
		for j := i - window + 1; j <= i; j++ {
			if values[j] > high {
				high = values[j]
			}
		}
		out[i] = high
	}
	return out
}

// Support is the rolling floor: the lowest low over window bars.
func Support(lows []float64, window int) []float64 {
	return RollingMin(lows, window)
}

// Resistance is the rolling ceiling: the highest high over window bars.
func Resistance(highs []float64, window int) []float64 {
	return RollingMax(highs, window)
}
