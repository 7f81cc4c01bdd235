package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/evaluator"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/server"
)

func main() {
	defer logger.Sync()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.L().Fatal("load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.L().Fatal("config validation", zap.Error(err))
	}
	logger.SetLevel(cfg.Log.Level)
	logger.L().Info("SignalSentinel starting",
		zap.String("symbol", cfg.Data.Symbol),
		zap.String("csv_path", cfg.Data.CSVPath),
		zap.String("addr", cfg.Server.Addr),
	)

	// Price source
	source := collector.NewCSVSource(cfg.Data.CSVPath, cfg.Data.Symbol)
	col := collector.NewCollector(source, cfg.Data.Symbol)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	ev := evaluator.New(col, rec)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional Telegram notifier
	var tn *notifier.TelegramNotifier
	var n notifier.Notifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	}

	var refresher scheduler.SourceRefresher
	if cfg.Data.RefreshCron != "" {
		fetcher := collector.NewYahooFetcher(cfg.Proxy)
		refresher = collector.NewRefresher(fetcher, cfg.Data.CSVPath, cfg.Data.Symbol, cfg.Data.RefreshDays)
	}

	sched := scheduler.NewScheduler(ctx, ev, refresher, n)
	if err := sched.RegisterAll(cfg.Data.RefreshCron, cfg.Watch.Cron); err != nil {
		logger.L().Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	srv, err := server.New(server.Config{Addr: cfg.Server.Addr, Evaluator: ev})
	if err != nil {
		logger.L().Fatal("init http server", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	if tn != nil {
		g.Go(func() error {
			tn.StartPolling(gctx, sched.HandleCommand)
			return nil
		})
		logger.Infof("telegram polling started")
	}

	if err := g.Wait(); err != nil {
		logger.Errorf("SignalSentinel stopped with error: %v", err)
		return
	}
	logger.Infof("SignalSentinel stopped")
}
