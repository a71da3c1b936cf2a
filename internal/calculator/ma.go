package calculator

import (
	"errors"
	"math"
)

var (
	errPeriod       = errors.New("period must be positive")
	errInsufficient = errors.New("not enough data for calculation")
)

// nanSeries returns a series of n undefined values.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SMA computes the rolling simple moving average of values over the given period.
// Entries without a full window of defined values are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if !defined(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

// EMA computes the exponential moving average seeded with the SMA of the first
// period defined values. Leading undefined values are skipped, so EMA can be
// chained onto another warm-up series (MACD signal line).
func EMA(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errPeriod
	}
	out := nanSeries(len(values))

	start := 0
	for start < len(values) && !defined(values[start]) {
		start++
	}
	seedEnd := start + period - 1
	if seedEnd >= len(values) {
		return out, nil
	}

	sum := 0.0
	for i := start; i <= seedEnd; i++ {
		if !defined(values[i]) {
			return out, nil
		}
		sum += values[i]
	}
	prev := sum / float64(period)
	out[seedEnd] = prev

	k := 2.0 / float64(period+1)
	for i := seedEnd + 1; i < len(values); i++ {
		if !defined(values[i]) {
			continue
		}
		prev = values[i]*k + prev*(1-k)
		out[i] = prev
	}
	return out, nil
}

// StdDev computes the rolling population standard deviation over the given period.
func StdDev(values []float64, period int) ([]float64, error) {
	mean, err := SMA(values, period)
	if err != nil {
		return nil, err
	}
	out := nanSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		if !defined(mean[i]) {
			continue
		}
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean[i]
			variance += d * d
		}
		out[i] = math.Sqrt(variance / float64(period))
	}
	return out, nil
}
