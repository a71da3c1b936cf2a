package model

import (
	"math"
	"time"
)

// IndicatorRow holds every indicator value for one candle index.
// Undefined values (warm-up) are NaN until the frame is filtered.
type IndicatorRow struct {
	Time       time.Time
	Close      float64
	RSI        float64
	K          float64
	D          float64
	MACD       float64
	MACDSignal float64
	BBLower    float64
	BBUpper    float64
}

// Complete reports whether all indicator values of the row are defined.
func (r IndicatorRow) Complete() bool {
	for _, v := range [...]float64{r.Close, r.RSI, r.K, r.D, r.MACD, r.MACDSignal, r.BBLower, r.BBUpper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IndicatorFrame is a sequence of rows aligned with the candle series, oldest first.
type IndicatorFrame []IndicatorRow
