package calculator

import "math"

// Highest returns the rolling maximum over the given period; NaN during warm-up.
func Highest(values []float64, period int) ([]float64, error) {
	return rollingExtreme(values, period, math.Max, math.Inf(-1))
}

// Lowest returns the rolling minimum over the given period; NaN during warm-up.
func Lowest(values []float64, period int) ([]float64, error) {
	return rollingExtreme(values, period, math.Min, math.Inf(1))
}

func rollingExtreme(values []float64, period int, pick func(a, b float64) float64, init float64) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		ext := init
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if !defined(values[j]) {
				ok = false
				break
			}
			ext = pick(ext, values[j])
		}
		if ok {
			out[i] = ext
		}
	}
	return out, nil
}
