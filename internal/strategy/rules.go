package strategy

import "SignalSentinel/internal/model"

// Comparisons against NaN are false, so an undefined stochastic value never
// satisfies a swing rule.

func swingLong(row model.Row, t Thresholds, _ float64) bool {
	return row.Close > row.EMA20 &&
		row.Close > row.EMA50 &&
		row.Close > row.BBUpper &&
		row.StochK < t.StochOversold &&
		row.StochK > row.StochD
}

func swingShort(row model.Row, t Thresholds, _ float64) bool {
	return row.Close < row.EMA20 &&
		row.Close < row.EMA50 &&
		row.Close < row.BBLower &&
		row.StochK > t.StochOverbought &&
		row.StochK < row.StochD
}

func rangeLong(row model.Row, t Thresholds, _ float64) bool {
	return row.Close <= row.Support*t.SupportProximity
}

func rangeShort(row model.Row, t Thresholds, _ float64) bool {
	return row.Close >= row.Resistance*t.ResistanceProximity
}

func longExit(row model.Row, t Thresholds, entry float64) bool {
	return row.Close >= entry*t.LongTakeProfit || row.Close <= entry*t.LongStopLoss
}

func shortExit(row model.Row, t Thresholds, entry float64) bool {
	return row.Close <= entry*t.ShortTakeProfit || row.Close >= entry*t.ShortStopLoss
}
