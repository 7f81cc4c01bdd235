package model

import "time"

// Signal is the categorical answer of one evaluation.
type Signal string

const (
	SignalSwingLongEntry  Signal = "swing_long_entry"
	SignalSwingShortEntry Signal = "swing_short_entry"
	SignalRangeLongEntry  Signal = "range_long_entry"
	SignalRangeShortEntry Signal = "range_short_entry"
	SignalLongExit        Signal = "long_exit"
	SignalShortExit       Signal = "short_exit"
	SignalNone            Signal = "no_signal"
)

// IsEntry reports whether s opens a position.
func (s Signal) IsEntry() bool {
	switch s {
	case SignalSwingLongEntry, SignalSwingShortEntry, SignalRangeLongEntry, SignalRangeShortEntry:
		return true
	}
	return false
}

// IsExit reports whether s closes a position.
func (s Signal) IsExit() bool {
	return s == SignalLongExit || s == SignalShortExit
}

// Evaluation is the full record of one signal evaluation.
type Evaluation struct {
	ID          string
	Symbol      string
	Row         Row
	EntryPrice  *float64
	Signal      Signal
	Rule        string
	EvaluatedAt time.Time
}
