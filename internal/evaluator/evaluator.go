package evaluator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

// Evaluator runs one full evaluation: load the price source, compute the
// indicators, apply the rules and record the result. It holds no state
// between calls.
type Evaluator struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder

	now   func() time.Time
	newID func() string
}

// New creates an Evaluator. A nil recorder disables recording.
func New(col *collector.Collector, rec recorder.Recorder) *Evaluator {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Evaluator{
		Collector: col,
		Recorder:  rec,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Evaluate returns the signal for the latest bar. With a nil entryPrice the
// entry rules apply, otherwise the exit rules.
func (e *Evaluator) Evaluate(ctx context.Context, entryPrice *float64) (*model.Evaluation, error) {
	series, err := e.Collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	row, err := calculator.Latest(series)
	if err != nil {
		return nil, err
	}

	decision := strategy.Evaluate(row, entryPrice)
	eval := &model.Evaluation{
		ID:          e.newID(),
		Symbol:      series.Symbol,
		Row:         row,
		EntryPrice:  entryPrice,
		Signal:      decision.Signal,
		Rule:        decision.Rule,
		EvaluatedAt: e.now(),
	}
	logDiagnostics(eval, series.Len())

	if err := e.Recorder.RecordEvaluation(eval); err != nil {
		logger.L().Warn("record evaluation failed", zap.String("id", eval.ID), zap.Error(err))
	}
	return eval, nil
}

func logDiagnostics(eval *model.Evaluation, bars int) {
	row := eval.Row
	fields := []zap.Field{
		zap.String("id", eval.ID),
		zap.String("symbol", eval.Symbol),
		zap.Int("bars", bars),
		zap.String("date", row.Date.Format("2006-01-02")),
		zap.Float64("close", row.Close),
		zap.Float64("ema20", row.EMA20),
		zap.Float64("ema50", row.EMA50),
		zap.Float64("bb_upper", row.BBUpper),
		zap.Float64("bb_lower", row.BBLower),
		zap.Float64("stoch_k", row.StochK),
		zap.Float64("stoch_d", row.StochD),
		zap.Float64("support", row.Support),
		zap.Float64("resistance", row.Resistance),
		zap.String("signal", string(eval.Signal)),
		zap.String("rule", eval.Rule),
	}
	if eval.EntryPrice != nil {
		fields = append(fields, zap.Float64("entry_price", *eval.EntryPrice))
	}
	logger.L().Debug("signal evaluated", fields...)
}
