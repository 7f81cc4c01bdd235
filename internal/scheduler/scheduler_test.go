package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
)

type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, entryPrice *float64) (*model.Evaluation, error) {
	args := m.Called(ctx, entryPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Evaluation), args.Error(1)
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	r.messages = append(r.messages, text)
	return nil
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), new(MockEvaluator), nil, nil)
	require.NoError(t, s.RegisterAll("", "0 0 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("0 0 0 * * *", ""), "refresh needs a refresher")
	assert.Error(t, s.RegisterAll("", "bogus"))

	s = NewScheduler(context.Background(), new(MockEvaluator), new(MockRefresher), nil)
	require.NoError(t, s.RegisterAll("@daily", "@hourly"))
	assert.Len(t, s.Cron.Entries(), 2)
}

func TestWatchTask_NotifiesActionableSignals(t *testing.T) {
	ev := new(MockEvaluator)
	ev.On("Evaluate", mock.Anything, (*float64)(nil)).
		Return(&model.Evaluation{Symbol: "ETH-USD", Signal: model.SignalNone}, nil).Once()
	ev.On("Evaluate", mock.Anything, (*float64)(nil)).
		Return(&model.Evaluation{Symbol: "ETH-USD", Signal: model.SignalRangeLongEntry}, nil).Once()
	ev.On("Evaluate", mock.Anything, (*float64)(nil)).
		Return(nil, errors.New("source down")).Once()

	n := &recordingNotifier{}
	s := NewScheduler(context.Background(), ev, nil, n)

	s.RunWatchNow()
	assert.Empty(t, n.messages)

	s.RunWatchNow()
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "range_long_entry")

	s.RunWatchNow()
	require.Len(t, n.messages, 2)
	assert.Contains(t, n.messages[1], "source down")
	ev.AssertExpectations(t)
}

func TestRefreshTask_ReportsFailure(t *testing.T) {
	ref := new(MockRefresher)
	ref.On("Refresh", mock.Anything).Return(0, errors.New("yahoo 429")).Once()
	n := &recordingNotifier{}
	s := NewScheduler(context.Background(), new(MockEvaluator), ref, n)

	s.refreshTask()
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "yahoo 429")
}

func TestFailureMessagesAreEscaped(t *testing.T) {
	ref := new(MockRefresher)
	ref.On("Refresh", mock.Anything).Return(0, errors.New("status 502: <html><body>Bad Gateway</body></html>"))
	ev := new(MockEvaluator)
	ev.On("Evaluate", mock.Anything, (*float64)(nil)).
		Return(nil, errors.New("load csv: open data/<ETH>.csv: no such file"))
	n := &recordingNotifier{}
	s := NewScheduler(context.Background(), ev, ref, n)

	s.refreshTask()
	s.RunWatchNow()
	require.Len(t, n.messages, 2)
	assert.Contains(t, n.messages[0], "&lt;html&gt;&lt;body&gt;Bad Gateway")
	assert.NotContains(t, n.messages[0], "<html>")
	assert.Contains(t, n.messages[1], "data/&lt;ETH&gt;.csv")

	ctx := context.Background()
	assert.Contains(t, s.HandleCommand(ctx, "/refresh"), "&lt;html&gt;")
	assert.Contains(t, s.HandleCommand(ctx, "/signal"), "&lt;ETH&gt;")
	reply := s.HandleCommand(ctx, "/signal <b>")
	assert.Contains(t, reply, "invalid entry price")
	assert.NotContains(t, reply, "<b>")
}

func TestHandleCommand(t *testing.T) {
	ev := new(MockEvaluator)
	ev.On("Evaluate", mock.Anything, (*float64)(nil)).
		Return(&model.Evaluation{Symbol: "ETH-USD", Signal: model.SignalNone}, nil)
	ev.On("Evaluate", mock.Anything, mock.MatchedBy(func(p *float64) bool { return p != nil && *p == 2150.5 })).
		Return(&model.Evaluation{Symbol: "ETH-USD", Signal: model.SignalShortExit}, nil)
	ref := new(MockRefresher)
	ref.On("Refresh", mock.Anything).Return(365, nil)

	s := NewScheduler(context.Background(), ev, ref, nil)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/signal"), "no_signal")
	assert.Contains(t, s.HandleCommand(ctx, "/signal 2150.5"), "short_exit")
	assert.Contains(t, s.HandleCommand(ctx, "/signal abc"), "invalid entry price")
	assert.Contains(t, s.HandleCommand(ctx, "/signal -1"), "invalid entry price")
	assert.Contains(t, s.HandleCommand(ctx, "/refresh"), "365 bars")
	assert.Equal(t, helpText, s.HandleCommand(ctx, "hello"))
	assert.Equal(t, helpText, s.HandleCommand(ctx, "  "))
}
