package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

func TestSQLiteRecorder_RecordEvaluation(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "signals.db"))
	require.NoError(t, err)
	defer rec.Close()

	entry := 2000.0
	now := time.Now()
	evals := []*model.Evaluation{
		{ID: "a", Symbol: "ETH-USD", Signal: model.SignalNone, EvaluatedAt: now,
			Row: model.Row{Date: now, Close: 2100, StochK: math.NaN(), StochD: math.NaN()}},
		{ID: "b", Symbol: "ETH-USD", Signal: model.SignalLongExit, EvaluatedAt: now,
			Row: model.Row{Date: now, Close: 2100}, EntryPrice: &entry, Rule: "long exit"},
		{ID: "c", Symbol: "ETH-USD", Signal: model.SignalNone, EvaluatedAt: now},
	}
	for _, e := range evals {
		require.NoError(t, rec.RecordEvaluation(e))
	}

	counts, err := rec.CountBySignal()
	require.NoError(t, err)
	assert.Equal(t, map[model.Signal]int{model.SignalNone: 2, model.SignalLongExit: 1}, counts)

	var stochK, entryPrice *float64
	require.NoError(t, rec.db.QueryRow(`SELECT stoch_k, entry_price FROM signal_evaluations WHERE id = 'a'`).Scan(&stochK, &entryPrice))
	assert.Nil(t, stochK, "NaN is stored as NULL")
	assert.Nil(t, entryPrice)

	assert.Error(t, rec.RecordEvaluation(evals[0]), "ids are unique")
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordEvaluation(&model.Evaluation{}))
	assert.NoError(t, rec.Close())
}
