package strategy

import "FuturesScanner/internal/model"

// Vote is one factor's verdict on the evaluation window.
type Vote struct {
	Name string
	Buy  bool
	Sell bool
}

// voteRSI: rising out of oversold / falling out of overbought.
func voteRSI(curr, prev model.IndicatorRow) Vote {
	return Vote{
		Name: "RSI",
		Buy:  curr.RSI < 30 && curr.RSI > prev.RSI,
		Sell: curr.RSI > 70 && curr.RSI < prev.RSI,
	}
}

// voteStochastic: %K crossing %D inside the extreme zones.
func voteStochastic(curr, prev model.IndicatorRow) Vote {
	return Vote{
		Name: "Stochastic",
		Buy:  curr.K > curr.D && prev.K < prev.D && curr.K < 20,
		Sell: curr.K < curr.D && prev.K > prev.D && curr.K > 80,
	}
}

// voteMACD: MACD crossing its signal line, confirmed by the side of zero.
func voteMACD(curr, prev model.IndicatorRow) Vote {
	return Vote{
		Name: "MACD",
		Buy:  curr.MACD > curr.MACDSignal && prev.MACD < prev.MACDSignal && curr.MACD > 0,
		Sell: curr.MACD < curr.MACDSignal && prev.MACD > prev.MACDSignal && curr.MACD < 0,
	}
}

// voteBollinger: close re-entering the bands after being outside the previous band.
func voteBollinger(curr, prev model.IndicatorRow) Vote {
	return Vote{
		Name: "Bollinger",
		Buy:  curr.Close < prev.BBLower && curr.Close > curr.BBLower,
		Sell: curr.Close > prev.BBUpper && curr.Close < curr.BBUpper,
	}
}

// Votes evaluates all four factors on the (current, previous) pair.
func Votes(curr, prev model.IndicatorRow) []Vote {
	return []Vote{
		voteRSI(curr, prev),
		voteStochastic(curr, prev),
		voteMACD(curr, prev),
		voteBollinger(curr, prev),
	}
}
