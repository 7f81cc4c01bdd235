package collector

import (
	"context"
	"errors"

	"SignalSentinel/internal/model"
)

// ErrSourceNotFound is returned when the price source does not exist.
var ErrSourceNotFound = errors.New("price source not found")

// Source loads the full price history of one instrument, oldest bar first.
type Source interface {
	Load(ctx context.Context) ([]model.OHLCV, error)
	Name() string
}

// Fetcher downloads daily bars from a remote market data provider.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}
