package model

// Decision is the discrete outcome of a signal evaluation.
type Decision string

const (
	DecisionBuy  Decision = "Buy"
	DecisionSell Decision = "Sell"
	DecisionHold Decision = "Hold"
)

// Actionable reports whether the decision triggers notify/log side effects.
func (d Decision) Actionable() bool {
	return d == DecisionBuy || d == DecisionSell
}

// SignalResult is the per-instrument output of one scan.
type SignalResult struct {
	Symbol    string   `json:"symbol"`
	RSI       float64  `json:"rsi"`
	MACD      float64  `json:"macd"`
	Signal    float64  `json:"signal"`
	Price     float64  `json:"price"`
	Decision  Decision `json:"decision"`
	ScoreBuy  int      `json:"score_buy"`
	ScoreSell int      `json:"score_sell"`
	Timestamp string   `json:"timestamp"`

	// Factors names the indicators that voted for Decision.
	Factors []string `json:"-"`
}

// TargetSet holds take-profit and stop-loss levels for an actionable signal.
type TargetSet struct {
	Entry float64
	TP1   float64
	TP2   float64
	TP3   float64
	SL    float64
}

// SignalLogEntry is one row of the append-only signal log.
type SignalLogEntry struct {
	Timestamp string   `json:"timestamp"`
	Symbol    string   `json:"symbol"`
	Direction Decision `json:"direction"`
	Entry     float64  `json:"entry"`
	TP1       float64  `json:"tp1"`
	TP2       float64  `json:"tp2"`
	TP3       float64  `json:"tp3"`
	SL        float64  `json:"sl"`
}
