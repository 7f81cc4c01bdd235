package scheduler

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"SignalSentinel/internal/config"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
)

// SignalEvaluator produces one evaluation per call.
type SignalEvaluator interface {
	Evaluate(ctx context.Context, entryPrice *float64) (*model.Evaluation, error)
}

// SourceRefresher rewrites the price source from a remote provider.
type SourceRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler manages the cron tasks and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Evaluator SignalEvaluator
	Refresher SourceRefresher   // optional
	Notifier  notifier.Notifier // optional
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. refresher and n may be nil.
func NewScheduler(ctx context.Context, ev SignalEvaluator, refresher SourceRefresher, n notifier.Notifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithParser(config.CronParser)),
		Evaluator: ev,
		Refresher: refresher,
		Notifier:  n,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh and watch tasks. Empty specs are skipped.
func (s *Scheduler) RegisterAll(refreshCron, watchCron string) error {
	if refreshCron != "" {
		if s.Refresher == nil {
			return fmt.Errorf("register refresh task: no refresher configured")
		}
		if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
			return fmt.Errorf("register refresh task: %w", err)
		}
	}
	if watchCron != "" {
		if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
			return fmt.Errorf("register watch task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Infof("scheduler started with %d tasks", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Infof("scheduler stopped")
}

// RunWatchNow executes the watch task immediately.
func (s *Scheduler) RunWatchNow() {
	s.watchTask()
}

func (s *Scheduler) refreshTask() {
	logger.Infof("running refresh task")
	if _, err := s.Refresher.Refresh(s.Ctx); err != nil {
		logger.Errorf("refresh price source: %v", err)
		s.trySend("❌ price source refresh failed: " + html.EscapeString(err.Error()))
	}
}

func (s *Scheduler) watchTask() {
	logger.Infof("running watch task")
	eval, err := s.Evaluator.Evaluate(s.Ctx, nil)
	if err != nil {
		logger.Errorf("watch evaluate: %v", err)
		s.trySend("❌ signal evaluation failed: " + html.EscapeString(err.Error()))
		return
	}
	if eval.Signal == model.SignalNone {
		return
	}
	s.trySend(notifier.FormatSignalAlert(eval))
}

// HandleCommand processes a chat command and returns an HTML reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/signal":
		var entry *float64
		if len(fields) > 1 {
			d, err := decimal.NewFromString(fields[1])
			if err != nil || !d.IsPositive() {
				return "invalid entry price " + html.EscapeString(strconv.Quote(fields[1]))
			}
			v := d.InexactFloat64()
			entry = &v
		}
		eval, err := s.Evaluator.Evaluate(ctx, entry)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatEvaluation(eval)
	case "/refresh":
		if s.Refresher == nil {
			return "refresh is not configured"
		}
		n, err := s.Refresher.Refresh(ctx)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		return fmt.Sprintf("✅ price source refreshed: %d bars", n)
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /signal: entry signal for the latest bar\n• /signal &lt;entry_price&gt;: exit signal for an open position\n• /refresh: download the latest bars"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		logger.Errorf("send notification: %v", err)
	}
}
