package calculator

// Stochastic computes the %K and %D lines of the stochastic oscillator.
// Raw %K compares the close to the highest high / lowest low of the last kPeriod
// bars, is smoothed with an SMA of kSmooth, and %D is an SMA of %K over dSmooth.
// A flat range (high == low) gives raw %K of 0.
func Stochastic(high, low, close []float64, kPeriod, kSmooth, dSmooth int) (k, d []float64, err error) {
	if len(high) != len(close) || len(low) != len(close) {
		return nil, nil, errLength
	}
	hh, err := Highest(high, kPeriod)
	if err != nil {
		return nil, nil, err
	}
	ll, err := Lowest(low, kPeriod)
	if err != nil {
		return nil, nil, err
	}

	raw := nanSeries(len(close))
	for i := range close {
		if !defined(hh[i]) || !defined(ll[i]) {
			continue
		}
		if hh[i] == ll[i] {
			raw[i] = 0
			continue
		}
		raw[i] = 100 * (close[i] - ll[i]) / (hh[i] - ll[i])
	}

	if k, err = SMA(raw, kSmooth); err != nil {
		return nil, nil, err
	}
	if d, err = SMA(k, dSmooth); err != nil {
		return nil, nil, err
	}
	return k, d, nil
}
