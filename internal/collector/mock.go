package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"FuturesScanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	List        []model.Instrument
	ListErr     error
	Candles     map[string][]model.Candle
	CandleErrs  map[string]error
	DefaultSize int // generated candles for symbols without fixed data; 0 means error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Instruments(_ context.Context) ([]model.Instrument, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.List, nil
}

func (m *MockFetcher) FetchCandles(ctx context.Context, symbol, _ string, limit int) ([]model.Candle, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.CandleErrs[symbol]; ok {
		return nil, err
	}
	if c, ok := m.Candles[symbol]; ok {
		return c, nil
	}
	if m.DefaultSize > 0 {
		n := m.DefaultSize
		if limit > 0 && limit < n {
			n = limit
		}
		return GenerateCandles(100, n), nil
	}
	return nil, fmt.Errorf("no data for %s", symbol)
}

// Calls returns the symbols FetchCandles was called with.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// GenerateCandles returns count 15-minute candles oscillating around basePrice.
func GenerateCandles(basePrice float64, count int) []model.Candle {
	bars := make([]model.Candle, count)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/4))
		bars[i] = model.Candle{
			Time:   start.Add(time.Duration(i) * 15 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}
