package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"FuturesScanner/internal/model"
)

// DefaultBinanceURL is the USDⓈ-M futures REST endpoint.
const DefaultBinanceURL = "https://fapi.binance.com"

// BinanceFetcher implements Fetcher using the Binance futures REST API.
type BinanceFetcher struct {
	BaseURL  string
	Client   *http.Client
	limiter  *rate.Limiter
	validate *validator.Validate
	now      func() time.Time
}

// NewBinanceFetcher creates a fetcher with optional proxy support. requestsPerSec
// bounds the request rate across all goroutines sharing the fetcher.
func NewBinanceFetcher(baseURL, proxyURL string, timeout time.Duration, requestsPerSec float64) *BinanceFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	limit := rate.Inf
	if requestsPerSec > 0 {
		limit = rate.Limit(requestsPerSec)
	}
	return &BinanceFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter:  rate.NewLimiter(limit, 1),
		validate: validator.New(),
		now:      time.Now,
	}
}

func (f *BinanceFetcher) Name() string { return "binance-futures" }

// apiError is the error body returned by Binance on non-200 responses.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type exchangeInfo struct {
	Symbols []model.Instrument `json:"symbols"`
}

// Instruments lists all futures symbols from /fapi/v1/exchangeInfo.
func (f *BinanceFetcher) Instruments(ctx context.Context) ([]model.Instrument, error) {
	body, err := f.get(ctx, "/fapi/v1/exchangeInfo", nil)
	if err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}
	var info exchangeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode exchange info: %w", err)
	}

	instruments := make([]model.Instrument, 0, len(info.Symbols))
	for _, in := range info.Symbols {
		if err := f.validate.Struct(&in); err != nil {
			log.Warn().Err(err).Interface("instrument", in).Msg("skipping invalid instrument")
			continue
		}
		instruments = append(instruments, in)
	}
	return instruments, nil
}

// FetchCandles loads klines from /fapi/v1/klines. Each row has 12 fields; only
// open time, OHLCV and close time are read. A still-forming last candle is dropped.
func (f *BinanceFetcher) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	body, err := f.get(ctx, "/fapi/v1/klines", q)
	if err != nil {
		return nil, fmt.Errorf("klines %s: %w", symbol, err)
	}
	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode klines %s: %w", symbol, err)
	}

	now := f.now()
	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		c, closeTime, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("kline %s row %d: %w", symbol, i, err)
		}
		if i == len(rows)-1 && !closeTime.IsZero() && closeTime.After(now) {
			continue
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseKline(row []json.RawMessage) (model.Candle, time.Time, error) {
	if len(row) < 6 {
		return model.Candle{}, time.Time{}, fmt.Errorf("expected at least 6 fields, got %d", len(row))
	}
	var openMs int64
	if err := json.Unmarshal(row[0], &openMs); err != nil {
		return model.Candle{}, time.Time{}, fmt.Errorf("open time: %w", err)
	}

	var vals [5]float64
	for j := 1; j <= 5; j++ {
		var s string
		if err := json.Unmarshal(row[j], &s); err != nil {
			return model.Candle{}, time.Time{}, fmt.Errorf("field %d: %w", j, err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return model.Candle{}, time.Time{}, fmt.Errorf("field %d: %w", j, err)
		}
		vals[j-1] = d.InexactFloat64()
	}

	var closeTime time.Time
	if len(row) > 6 {
		var closeMs int64
		if err := json.Unmarshal(row[6], &closeMs); err == nil {
			closeTime = time.UnixMilli(closeMs)
		}
	}

	return model.Candle{
		Time:   time.UnixMilli(openMs),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, closeTime, nil
}

func (f *BinanceFetcher) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	endpoint := f.BaseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Msg != "" {
			return nil, fmt.Errorf("status %d: code %d: %s", resp.StatusCode, ae.Code, ae.Msg)
		}
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
