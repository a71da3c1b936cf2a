package strategy

import (
	"time"

	"FuturesScanner/internal/model"
)

// Threshold is the number of agreeing factors needed for an actionable decision.
const Threshold = 2

// TimestampLayout is ISO-8601 with microseconds and numeric zone offset.
const TimestampLayout = "2006-01-02T15:04:05.999999-07:00"

// Decide maps factor scores to a decision. Buy is checked first, so a tie at or
// above the threshold resolves to Buy.
func Decide(scoreBuy, scoreSell int) model.Decision {
	switch {
	case scoreBuy >= Threshold:
		return model.DecisionBuy
	case scoreSell >= Threshold:
		return model.DecisionSell
	default:
		return model.DecisionHold
	}
}

// Score counts the buy and sell votes.
func Score(votes []Vote) (scoreBuy, scoreSell int) {
	for _, v := range votes {
		if v.Buy {
			scoreBuy++
		}
		if v.Sell {
			scoreSell++
		}
	}
	return scoreBuy, scoreSell
}

// Evaluate computes the signal for one instrument from the two most recent rows
// of a filtered indicator frame. It returns ok=false when fewer than two rows are
// available; that is an expected outcome during warm-up, not an error.
func Evaluate(symbol string, frame model.IndicatorFrame, at time.Time) (model.SignalResult, bool) {
	if len(frame) < 2 {
		return model.SignalResult{}, false
	}
	curr := frame[len(frame)-1]
	prev := frame[len(frame)-2]

	votes := Votes(curr, prev)
	scoreBuy, scoreSell := Score(votes)
	decision := Decide(scoreBuy, scoreSell)

	return model.SignalResult{
		Symbol:    symbol,
		RSI:       curr.RSI,
		MACD:      curr.MACD,
		Signal:    curr.MACDSignal,
		Price:     curr.Close,
		Decision:  decision,
		ScoreBuy:  scoreBuy,
		ScoreSell: scoreSell,
		Timestamp: at.Format(TimestampLayout),
		Factors:   Agreeing(votes, decision),
	}, true
}

// Agreeing returns the names of the factors that voted for decision. Hold has
// no agreeing factors.
func Agreeing(votes []Vote, decision model.Decision) []string {
	var names []string
	for _, v := range votes {
		if (decision == model.DecisionBuy && v.Buy) || (decision == model.DecisionSell && v.Sell) {
			names = append(names, v.Name)
		}
	}
	return names
}
