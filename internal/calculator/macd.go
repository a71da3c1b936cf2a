package calculator

import "errors"

// MACD computes the MACD line (fast EMA - slow EMA) and its signal line (EMA of
// the MACD line over signalPeriod).
func MACD(closes []float64, fast, slow, signalPeriod int) (macd, signal []float64, err error) {
	if fast >= slow {
		return nil, nil, errors.New("fast period must be shorter than slow period")
	}
	fastEMA, err := EMA(closes, fast)
	if err != nil {
		return nil, nil, err
	}
	slowEMA, err := EMA(closes, slow)
	if err != nil {
		return nil, nil, err
	}

	macd = nanSeries(len(closes))
	for i := range closes {
		if defined(fastEMA[i]) && defined(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
		}
	}
	if signal, err = EMA(macd, signalPeriod); err != nil {
		return nil, nil, err
	}
	return macd, signal, nil
}
