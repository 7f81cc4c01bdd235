package calculator

import "math"

// StdDev returns the trailing population standard deviation (ddof=0) of
// values over period.
func StdDev(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := 0.0
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)
		variance := 0.0
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}
		out[i] = math.Sqrt(variance / float64(period))
	}
	return out
}

// Bands holds the three Bollinger lines.
type Bands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Bollinger Bands over closes: middle = SMA(period),
// upper/lower = middle ± k * population stddev(period).
func Bollinger(closes []float64, period int, k float64) Bands {
	middle := SMA(closes, period)
	sd := StdDev(closes, period)
	b := Bands{
		Upper:  make([]float64, len(closes)),
		Middle: middle,
		Lower:  make([]float64, len(closes)),
	}
	for i := range closes {
		b.Upper[i] = middle[i] + k*sd[i]
		b.Lower[i] = middle[i] - k*sd[i]
	}
	return b
}
