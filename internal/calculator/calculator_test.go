package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuturesScanner/internal/model"
)

const tol = 1e-9

func TestSMA_WarmupAndValues(t *testing.T) {
	out, err := SMA([]float64{100, 102, 104, 103, 105}, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 102.0, out[2], tol)
	assert.InDelta(t, 103.0, out[3], tol)
	assert.InDelta(t, 104.0, out[4], tol)
}

func TestSMA_UndefinedInputPropagates(t *testing.T) {
	out, err := SMA([]float64{1, math.NaN(), 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[1]))
	assert.True(t, math.IsNaN(out[2]))
	assert.InDelta(t, 3.5, out[3], tol)
}

func TestSMA_InvalidPeriod(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestEMA_SeededWithSMA(t *testing.T) {
	// multiplier = 2/(3+1) = 0.5
	// seed at index 2: (100+102+104)/3 = 102
	// index 3: 103*0.5 + 102*0.5 = 102.5
	// index 4: 105*0.5 + 102.5*0.5 = 103.75
	out, err := EMA([]float64{100, 102, 104, 103, 105}, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 102.0, out[2], tol)
	assert.InDelta(t, 102.5, out[3], tol)
	assert.InDelta(t, 103.75, out[4], tol)
}

func TestEMA_SkipsLeadingUndefined(t *testing.T) {
	nan := math.NaN()
	out, err := EMA([]float64{nan, nan, 2, 4, 6}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[2]))
	assert.InDelta(t, 3.0, out[3], tol)
	// k = 2/3: 6*2/3 + 3/3 = 5
	assert.InDelta(t, 5.0, out[4], tol)
}

func TestRSI_HandCalculated(t *testing.T) {
	// changes +1, -1, +1 with period 2
	// seed: avgGain 0.5, avgLoss 0.5 -> 50
	// next: avgGain 0.75, avgLoss 0.25 -> rs 3 -> 75
	out, err := RSI([]float64{1, 2, 1, 2}, 2)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 50.0, out[2], tol)
	assert.InDelta(t, 75.0, out[3], tol)
}

func TestRSI_Bounds(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(100 - i)
	}
	rsiUp, err := RSI(up, 14)
	require.NoError(t, err)
	rsiDown, err := RSI(down, 14)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(rsiUp[13]))
	assert.InDelta(t, 100.0, rsiUp[29], tol)
	assert.InDelta(t, 0.0, rsiDown[29], tol)
}

func TestRSI_NotEnoughData(t *testing.T) {
	out, err := RSI([]float64{1, 2, 3}, 14)
	require.NoError(t, err)
	for _, v := range out {
		assert.True(t, math.IsNaN(v))
	}
}

func TestStochastic_RawValue(t *testing.T) {
	k, d, err := Stochastic(
		[]float64{3, 4, 5},
		[]float64{1, 2, 3},
		[]float64{2, 3, 4},
		3, 1, 1,
	)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(k[1]))
	// hh=5, ll=1, close=4 -> 75
	assert.InDelta(t, 75.0, k[2], tol)
	assert.InDelta(t, 75.0, d[2], tol)
}

func TestStochastic_FlatRangeIsZero(t *testing.T) {
	flat := []float64{10, 10, 10, 10}
	k, d, err := Stochastic(flat, flat, flat, 2, 1, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(k[0]))
	for i := 1; i < len(k); i++ {
		assert.Equal(t, 0.0, k[i])
		assert.Equal(t, 0.0, d[i])
	}
}

func TestStochastic_LengthMismatch(t *testing.T) {
	_, _, err := Stochastic([]float64{1}, []float64{1, 2}, []float64{1}, 1, 1, 1)
	assert.ErrorIs(t, err, errLength)
}

func TestMACD_Warmup(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/3)*5
	}
	macd, signal, err := MACD(closes, 12, 26, 9)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(macd[24]))
	assert.False(t, math.IsNaN(macd[25]))
	assert.True(t, math.IsNaN(signal[32]))
	assert.False(t, math.IsNaN(signal[33]))
}

func TestMACD_InvalidPeriods(t *testing.T) {
	_, _, err := MACD([]float64{1, 2, 3}, 26, 12, 9)
	assert.Error(t, err)
}

func TestBollingerBands(t *testing.T) {
	lower, upper, err := BollingerBands([]float64{1, 2, 3, 4, 5}, 5, 2)
	require.NoError(t, err)
	// mean 3, population variance 2
	assert.InDelta(t, 3-2*math.Sqrt2, lower[4], tol)
	assert.InDelta(t, 3+2*math.Sqrt2, upper[4], tol)
	assert.True(t, math.IsNaN(lower[3]))
}

func candles(n int) []model.Candle {
	out := make([]model.Candle, n)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		p := 100 + 10*math.Sin(float64(i)/5) + float64(i)*0.1
		out[i] = model.Candle{
			Time:  start.Add(time.Duration(i) * 15 * time.Minute),
			Open:  p,
			High:  p * 1.01,
			Low:   p * 0.99,
			Close: p,
		}
	}
	return out
}

func TestCompute_DropsWarmupRows(t *testing.T) {
	series := candles(100)
	frame, err := Compute(series, DefaultParams())
	require.NoError(t, err)

	// MACD signal is the slowest indicator: first defined at 26-1+9-1 = 33
	require.Len(t, frame, 67)
	assert.Equal(t, series[33].Time, frame[0].Time)
	assert.Equal(t, series[99].Time, frame[len(frame)-1].Time)
	for i := 1; i < len(frame); i++ {
		assert.True(t, frame[i].Time.After(frame[i-1].Time))
	}
}

func TestCompleteRows_PartialRowExcluded(t *testing.T) {
	full, err := BuildFrame(candles(100), DefaultParams())
	require.NoError(t, err)

	// knock out a single indicator on a row where all others are defined
	full[50].BBUpper = math.NaN()
	full[60].K = math.Inf(1)
	usable := CompleteRows(full)

	require.Len(t, usable, 65)
	for _, row := range usable {
		assert.True(t, row.Complete())
		assert.NotEqual(t, full[50].Time, row.Time)
		assert.NotEqual(t, full[60].Time, row.Time)
	}
}

func TestBuildFrame_MalformedCandle(t *testing.T) {
	series := candles(40)
	series[10].Close = math.NaN()
	_, err := BuildFrame(series, DefaultParams())
	assert.Error(t, err)

	_, err = BuildFrame(nil, DefaultParams())
	assert.Error(t, err)
}

func TestCompute_ShortSeriesYieldsEmptyFrame(t *testing.T) {
	frame, err := Compute(candles(30), DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, frame)
}

func TestCompute_FlatTailKeepsLatestRows(t *testing.T) {
	series := candles(100)
	for i := 80; i < len(series); i++ {
		series[i].Open, series[i].High, series[i].Low, series[i].Close = 120, 120, 120, 120
	}
	frame, err := Compute(series, DefaultParams())
	require.NoError(t, err)

	require.Len(t, frame, 67)
	last := frame[len(frame)-1]
	assert.Equal(t, series[len(series)-1].Time, last.Time)
	assert.Equal(t, 0.0, last.K)
	assert.Equal(t, 0.0, last.D)
	assert.Equal(t, series[len(series)-2].Time, frame[len(frame)-2].Time)
}
