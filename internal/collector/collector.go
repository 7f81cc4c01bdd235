package collector

import (
	"context"
	"fmt"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/model"
)

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Price float64
	Count int
	Bars  []model.OHLCV
	Err   error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Load(_ context.Context) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(m.Price, m.Count), nil
}

// GenerateMockBars builds count daily bars drifting gently around basePrice.
func GenerateMockBars(basePrice float64, count int) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates loading and indicator computation.
type Collector struct {
	Source Source
	Symbol string
}

// NewCollector creates a new Collector.
func NewCollector(source Source, symbol string) *Collector {
	return &Collector{Source: source, Symbol: symbol}
}

// Collect loads the price history and computes all indicators.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	bars, err := c.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.Source.Name(), err)
	}
	logger.Debugf("loaded %d bars for %s from %s", len(bars), c.Symbol, c.Source.Name())
	series := &model.PriceSeries{
		Symbol:   c.Symbol,
		Bars:     bars,
		LoadedAt: time.Now(),
	}
	if err := calculator.Compute(series); err != nil {
		return nil, fmt.Errorf("compute indicators for %s: %w", c.Symbol, err)
	}
	return series, nil
}

// Refresher downloads fresh daily bars and rewrites the CSV source file.
type Refresher struct {
	Fetcher Fetcher
	Path    string
	Symbol  string
	Days    int
}

// NewRefresher creates a Refresher.
func NewRefresher(fetcher Fetcher, path, symbol string, days int) *Refresher {
	return &Refresher{Fetcher: fetcher, Path: path, Symbol: symbol, Days: days}
}

// Refresh replaces the CSV file with the latest bars. The existing file is
// left untouched when the download fails or returns too few bars.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	bars, err := r.Fetcher.FetchDailyBars(ctx, r.Symbol, r.Days)
	if err != nil {
		return 0, fmt.Errorf("fetch %s from %s: %w", r.Symbol, r.Fetcher.Name(), err)
	}
	if len(bars) < calculator.MinBars {
		return 0, fmt.Errorf("%w: %s returned %d bars", calculator.ErrInsufficientData, r.Fetcher.Name(), len(bars))
	}
	if err := WriteCSV(r.Path, bars); err != nil {
		return 0, err
	}
	logger.Infof("refreshed %s: %d bars written to %s", r.Symbol, len(bars), r.Path)
	return len(bars), nil
}
