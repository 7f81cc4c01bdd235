package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/model"
)

// SignalEvaluator produces one evaluation per call.
type SignalEvaluator interface {
	Evaluate(ctx context.Context, entryPrice *float64) (*model.Evaluation, error)
}

// Config describes the HTTP server dependencies.
type Config struct {
	Addr      string
	Evaluator SignalEvaluator
}

// Server exposes the trading signal endpoint.
type Server struct {
	addr   string
	router *gin.Engine
	http   *http.Server
}

// New builds the HTTP server.
func New(cfg Config) (*Server, error) {
	if cfg.Evaluator == nil {
		return nil, errors.New("http server requires an evaluator")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":5000"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	h := &handler{evaluator: cfg.Evaluator}
	router.POST("/trading_signal", h.tradingSignal)

	return &Server{
		addr:   cfg.Addr,
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http server listening on %s", s.addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Infof("http server shutting down")
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.L().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
