package model

import "time"

// Candle represents a single closed candlestick bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Instrument is one entry of the exchange metadata listing.
type Instrument struct {
	Symbol       string `json:"symbol" validate:"required"`
	QuoteAsset   string `json:"quoteAsset"`
	ContractType string `json:"contractType"`
}
