package calculator

import "errors"

// BollingerBands computes the lower and upper bands at width standard deviations
// around the SMA of the given period.
func BollingerBands(closes []float64, period int, width float64) (lower, upper []float64, err error) {
	if width <= 0 {
		return nil, nil, errors.New("band width must be positive")
	}
	mid, err := SMA(closes, period)
	if err != nil {
		return nil, nil, err
	}
	std, err := StdDev(closes, period)
	if err != nil {
		return nil, nil, err
	}

	lower = nanSeries(len(closes))
	upper = nanSeries(len(closes))
	for i := range closes {
		if defined(mid[i]) && defined(std[i]) {
			lower[i] = mid[i] - width*std[i]
			upper[i] = mid[i] + width*std[i]
		}
	}
	return lower, upper, nil
}
