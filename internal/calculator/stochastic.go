package calculator

// Stochastic computes the stochastic oscillator.
//
//	%K = 100 * (close - lowest low) / (highest high - lowest low) over period
//	%D = SMA(%K, smooth)
//
// %K is NaN when the window is flat (highest high == lowest low).
func Stochastic(highs, lows, closes []float64, period, smooth int) (k, d []float64) {
	k = undefined(len(closes))
	if period > 0 && len(closes) >= period && len(highs) == len(closes) && len(lows) == len(closes) {
		hh := RollingMax(highs, period)
		ll := RollingMin(lows, period)
		for i := period - 1; i < len(closes); i++ {
			span := hh[i] - ll[i]
			if span == 0 {
				continue
			}
			k[i] = 100 * (closes[i] - ll[i]) / span
		}
	}
	d = SMA(k, smooth)
	return k, d
}
