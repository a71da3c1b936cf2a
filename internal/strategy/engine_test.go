package strategy

import (
	"math"
	"reflect"
	"testing"
	"time"

	"FuturesScanner/internal/model"
)

var testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("ICT", 7*3600))

// neutralRow produces no votes in either direction when paired with itself.
func neutralRow() model.IndicatorRow {
	return model.IndicatorRow{
		Close: 100, RSI: 50, K: 50, D: 50,
		MACD: 0.5, MACDSignal: 0.5, BBLower: 95, BBUpper: 105,
	}
}

// tiedRows: RSI and Stochastic vote Buy, MACD and Bollinger vote Sell.
func tiedRows() (curr, prev model.IndicatorRow) {
	prev = model.IndicatorRow{
		Close: 100, RSI: 20, K: 5, D: 8,
		MACD: 0, MACDSignal: -0.2, BBLower: 95, BBUpper: 104,
	}
	curr = model.IndicatorRow{
		Close: 105, RSI: 25, K: 15, D: 10,
		MACD: -1, MACDSignal: -0.5, BBLower: 96, BBUpper: 106,
	}
	return curr, prev
}

func TestEvaluate_TieResolvesToBuy(t *testing.T) {
	curr, prev := tiedRows()
	res, ok := Evaluate("BTCUSDT", model.IndicatorFrame{prev, curr}, testTime)
	if !ok {
		t.Fatal("expected a signal")
	}
	if res.ScoreBuy != 2 || res.ScoreSell != 2 {
		t.Fatalf("expected 2/2 scores, got buy=%d sell=%d", res.ScoreBuy, res.ScoreSell)
	}
	if res.Decision != model.DecisionBuy {
		t.Errorf("expected Buy on tie, got %s", res.Decision)
	}
}

func TestDecide_Boundaries(t *testing.T) {
	tests := []struct {
		buy, sell int
		want      model.Decision
	}{
		{0, 0, model.DecisionHold},
		{1, 1, model.DecisionHold},
		{1, 0, model.DecisionHold},
		{2, 0, model.DecisionBuy},
		{2, 2, model.DecisionBuy},
		{4, 4, model.DecisionBuy},
		{0, 2, model.DecisionSell},
		{1, 3, model.DecisionSell},
	}
	for _, tt := range tests {
		if got := Decide(tt.buy, tt.sell); got != tt.want {
			t.Errorf("Decide(%d, %d) = %s, want %s", tt.buy, tt.sell, got, tt.want)
		}
	}
}

func TestVotes_EachFactor(t *testing.T) {
	base := neutralRow()
	tests := []struct {
		name       string
		curr, prev func() model.IndicatorRow
		wantBuy    int
		wantSell   int
	}{
		{
			name:    "rsi rising from oversold",
			prev:    func() model.IndicatorRow { r := base; r.RSI = 22; return r },
			curr:    func() model.IndicatorRow { r := base; r.RSI = 28; return r },
			wantBuy: 1,
		},
		{
			name:     "rsi falling from overbought",
			prev:     func() model.IndicatorRow { r := base; r.RSI = 80; return r },
			curr:     func() model.IndicatorRow { r := base; r.RSI = 75; return r },
			wantSell: 1,
		},
		{
			name:    "stochastic bullish cross below 20",
			prev:    func() model.IndicatorRow { r := base; r.K, r.D = 10, 12; return r },
			curr:    func() model.IndicatorRow { r := base; r.K, r.D = 18, 14; return r },
			wantBuy: 1,
		},
		{
			name: "stochastic bullish cross above 20 ignored",
			prev: func() model.IndicatorRow { r := base; r.K, r.D = 30, 32; return r },
			curr: func() model.IndicatorRow { r := base; r.K, r.D = 40, 35; return r },
		},
		{
			name:     "stochastic bearish cross above 80",
			prev:     func() model.IndicatorRow { r := base; r.K, r.D = 90, 88; return r },
			curr:     func() model.IndicatorRow { r := base; r.K, r.D = 85, 87; return r },
			wantSell: 1,
		},
		{
			name:    "macd bullish cross above zero",
			prev:    func() model.IndicatorRow { r := base; r.MACD, r.MACDSignal = 0.1, 0.2; return r },
			curr:    func() model.IndicatorRow { r := base; r.MACD, r.MACDSignal = 0.3, 0.25; return r },
			wantBuy: 1,
		},
		{
			name:     "macd bearish cross below zero",
			prev:     func() model.IndicatorRow { r := base; r.MACD, r.MACDSignal = -0.1, -0.2; return r },
			curr:     func() model.IndicatorRow { r := base; r.MACD, r.MACDSignal = -0.3, -0.25; return r },
			wantSell: 1,
		},
		{
			name:    "bollinger rebound through lower band",
			prev:    func() model.IndicatorRow { r := base; r.BBLower = 99; return r },
			curr:    func() model.IndicatorRow { r := base; r.Close, r.BBLower = 98, 97; return r },
			wantBuy: 1,
		},
		{
			name:     "bollinger pullback through upper band",
			prev:     func() model.IndicatorRow { r := base; r.BBUpper = 101; return r },
			curr:     func() model.IndicatorRow { r := base; r.Close, r.BBUpper = 102, 103; return r },
			wantSell: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buy, sell := Score(Votes(tt.curr(), tt.prev()))
			if buy != tt.wantBuy || sell != tt.wantSell {
				t.Errorf("got buy=%d sell=%d, want buy=%d sell=%d", buy, sell, tt.wantBuy, tt.wantSell)
			}
		})
	}
}

func TestEvaluate_InsufficientRows(t *testing.T) {
	if _, ok := Evaluate("X", nil, testTime); ok {
		t.Error("expected no signal for empty frame")
	}
	if _, ok := Evaluate("X", model.IndicatorFrame{neutralRow()}, testTime); ok {
		t.Error("expected no signal for single row")
	}
}

func TestEvaluate_OnlyLastTwoRowsMatter(t *testing.T) {
	curr, prev := tiedRows()
	older := neutralRow()
	frame := model.IndicatorFrame{older, older, prev, curr}
	want, _ := Evaluate("ETHUSDT", frame, testTime)

	frame[0].RSI = 5
	frame[1].MACD = -40
	frame[1].BBUpper = 1
	got, _ := Evaluate("ETHUSDT", frame, testTime)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("older rows changed result:\n got %+v\nwant %+v", got, want)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	curr, prev := tiedRows()
	frame := model.IndicatorFrame{prev, curr}
	a, _ := Evaluate("SOLUSDT", frame, testTime)
	b, _ := Evaluate("SOLUSDT", frame, testTime)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}

func TestEvaluate_CarriesCurrentValues(t *testing.T) {
	curr, prev := tiedRows()
	res, _ := Evaluate("BNBUSDT", model.IndicatorFrame{prev, curr}, testTime)
	if res.Symbol != "BNBUSDT" || res.Price != curr.Close || res.RSI != curr.RSI ||
		res.MACD != curr.MACD || res.Signal != curr.MACDSignal {
		t.Errorf("unexpected values: %+v", res)
	}
	if res.Timestamp != "2025-01-02T03:04:05+07:00" {
		t.Errorf("unexpected timestamp %q", res.Timestamp)
	}
}

func TestTargets_FixedOffsets(t *testing.T) {
	for _, d := range []model.Decision{model.DecisionBuy, model.DecisionSell} {
		ts, err := Targets(100, d)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", d, err)
		}
		checks := []struct {
			label     string
			got, want float64
		}{
			{"entry", ts.Entry, 100},
			{"tp1", ts.TP1, 102},
			{"tp2", ts.TP2, 104},
			{"tp3", ts.TP3, 106},
			{"sl", ts.SL, 98},
		}
		for _, c := range checks {
			if math.Abs(c.got-c.want) > 1e-9 {
				t.Errorf("%s %s: got %.12f, want %.12f", d, c.label, c.got, c.want)
			}
		}
	}
}

func TestTargets_Rejects(t *testing.T) {
	for _, entry := range []float64{0, -1, math.NaN()} {
		if _, err := Targets(entry, model.DecisionBuy); err != ErrInvalidEntry {
			t.Errorf("entry %v: expected ErrInvalidEntry, got %v", entry, err)
		}
	}
	if _, err := Targets(100, model.DecisionHold); err == nil {
		t.Error("expected error for Hold decision")
	}
}

func TestEvaluate_NamesAgreeingFactors(t *testing.T) {
	curr, prev := tiedRows()
	res, _ := Evaluate("BTCUSDT", model.IndicatorFrame{prev, curr}, testTime)
	if len(res.Factors) != 2 || res.Factors[0] != "RSI" || res.Factors[1] != "Stochastic" {
		t.Errorf("expected [RSI Stochastic], got %v", res.Factors)
	}

	row := neutralRow()
	res, _ = Evaluate("BTCUSDT", model.IndicatorFrame{row, row}, testTime)
	if res.Decision != model.DecisionHold || len(res.Factors) != 0 {
		t.Errorf("expected Hold with no factors, got %s %v", res.Decision, res.Factors)
	}
}

func TestAgreeing_Sell(t *testing.T) {
	votes := []Vote{
		{Name: "RSI", Sell: true},
		{Name: "Stochastic", Buy: true},
		{Name: "MACD", Sell: true},
	}
	got := Agreeing(votes, model.DecisionSell)
	if len(got) != 2 || got[0] != "RSI" || got[1] != "MACD" {
		t.Errorf("expected [RSI MACD], got %v", got)
	}
}
