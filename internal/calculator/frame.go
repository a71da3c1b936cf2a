package calculator

import (
	"errors"
	"fmt"

	"FuturesScanner/internal/model"
)

var errLength = errors.New("input series lengths differ")

// Params holds the indicator periods used to build a frame.
type Params struct {
	RSIPeriod    int
	StochK       int
	StochKSmooth int
	StochDSmooth int
	MACDFast     int
	MACDSlow     int
	MACDSignal   int
	BBPeriod     int
	BBWidth      float64
}

// DefaultParams returns RSI(14), Stoch(14,3,3), MACD(12,26,9) and BB(20,2).
func DefaultParams() Params {
	return Params{
		RSIPeriod:    14,
		StochK:       14,
		StochKSmooth: 3,
		StochDSmooth: 3,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		BBPeriod:     20,
		BBWidth:      2,
	}
}

// BuildFrame computes every indicator over the candle series and merges them by
// row index. Rows inside any indicator's warm-up keep NaN values; use
// CompleteRows to obtain the usable frame.
func BuildFrame(candles []model.Candle, p Params) (model.IndicatorFrame, error) {
	if len(candles) == 0 {
		return nil, errInsufficient
	}
	n := len(candles)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	for i, c := range candles {
		if !defined(c.High) || !defined(c.Low) || !defined(c.Close) || c.Close <= 0 {
			return nil, fmt.Errorf("malformed candle at index %d", i)
		}
		high[i], low[i], closes[i] = c.High, c.Low, c.Close
	}

	rsi, err := RSI(closes, p.RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	k, d, err := Stochastic(high, low, closes, p.StochK, p.StochKSmooth, p.StochDSmooth)
	if err != nil {
		return nil, fmt.Errorf("stochastic: %w", err)
	}
	macd, signal, err := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	lower, upper, err := BollingerBands(closes, p.BBPeriod, p.BBWidth)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}

	frame := make(model.IndicatorFrame, n)
	for i, c := range candles {
		frame[i] = model.IndicatorRow{
			Time:       c.Time,
			Close:      c.Close,
			RSI:        rsi[i],
			K:          k[i],
			D:          d[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
			BBLower:    lower[i],
			BBUpper:    upper[i],
		}
	}
	return frame, nil
}

// CompleteRows drops every row that lacks a value for any indicator. The
// remaining rows keep their original order.
func CompleteRows(frame model.IndicatorFrame) model.IndicatorFrame {
	out := make(model.IndicatorFrame, 0, len(frame))
	for _, row := range frame {
		if row.Complete() {
			out = append(out, row)
		}
	}
	return out
}

// Compute builds the frame and applies the complete-row filter.
func Compute(candles []model.Candle, p Params) (model.IndicatorFrame, error) {
	frame, err := BuildFrame(candles, p)
	if err != nil {
		return nil, err
	}
	return CompleteRows(frame), nil
}
