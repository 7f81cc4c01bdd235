package strategy

import "SignalSentinel/internal/model"

// Thresholds holds every constant the swing, range and exit rules compare against.
type Thresholds struct {
	// Swing entries.
	StochOversold   float64
	StochOverbought float64

	// Range entries: multipliers applied to support / resistance.
	SupportProximity    float64
	ResistanceProximity float64

	// Exits: multipliers applied to the entry price.
	LongTakeProfit  float64
	LongStopLoss    float64
	ShortTakeProfit float64
	ShortStopLoss   float64
}

// DefaultThresholds returns the thresholds of the swing and range strategies.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StochOversold:       30,
		StochOverbought:     70,
		SupportProximity:    1.02,
		ResistanceProximity: 0.98,
		LongTakeProfit:      1.05,
		LongStopLoss:        0.98,
		ShortTakeProfit:     0.95,
		ShortStopLoss:       1.02,
	}
}

// Decision is the outcome of one evaluation.
type Decision struct {
	Signal model.Signal
	Rule   string
}

type rule struct {
	signal model.Signal
	name   string
	match  func(row model.Row, t Thresholds, entry float64) bool
}

// Order matters: the first matching rule wins.
var entryRules = []rule{
	{model.SignalSwingLongEntry, "swing long: close above ema20/ema50/bb_upper, stoch_k oversold and rising", swingLong},
	{model.SignalSwingShortEntry, "swing short: close below ema20/ema50/bb_lower, stoch_k overbought and falling", swingShort},
	{model.SignalRangeLongEntry, "range long: close within 2% above support", rangeLong},
	{model.SignalRangeShortEntry, "range short: close within 2% below resistance", rangeShort},
}

var exitRules = []rule{
	{model.SignalLongExit, "long exit: take profit at +5% or stop loss at -2%", longExit},
	{model.SignalShortExit, "short exit: take profit at -5% or stop loss at +2%", shortExit},
}

// Evaluate applies the entry rules when entryPrice is nil and the exit rules
// otherwise, using DefaultThresholds.
func Evaluate(row model.Row, entryPrice *float64) Decision {
	return EvaluateWith(row, entryPrice, DefaultThresholds())
}

// EvaluateWith is Evaluate with explicit thresholds.
func EvaluateWith(row model.Row, entryPrice *float64, t Thresholds) Decision {
	rules := entryRules
	entry := 0.0
	if entryPrice != nil {
		rules = exitRules
		entry = *entryPrice
	}
	for _, r := range rules {
		if r.match(row, t, entry) {
			return Decision{Signal: r.signal, Rule: r.name}
		}
	}
	return Decision{Signal: model.SignalNone, Rule: "no rule matched"}
}
