package collector

import (
	"context"

	"FuturesScanner/internal/model"
)

// Fetcher defines the exchange collaborator used by a scan.
type Fetcher interface {
	// Instruments returns the exchange metadata listing in exchange order.
	Instruments(ctx context.Context) ([]model.Instrument, error)
	// FetchCandles returns up to limit most recent closed candles, oldest first.
	FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	Name() string
}
