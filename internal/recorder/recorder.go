package recorder

import "SignalSentinel/internal/model"

// Recorder persists evaluation history for later analysis.
// Nothing in the request path reads it back.
type Recorder interface {
	RecordEvaluation(evt *model.Evaluation) error
	Close() error
}
