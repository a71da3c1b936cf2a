package strategy

import (
	"errors"
	"fmt"

	"FuturesScanner/internal/model"
)

// Fixed percentage offsets from the entry price. The same offsets apply to Buy
// and Sell decisions.
const (
	tp1Factor = 1.02
	tp2Factor = 1.04
	tp3Factor = 1.06
	slFactor  = 0.98
)

var ErrInvalidEntry = errors.New("entry price must be positive")

// Targets computes take-profit and stop-loss levels for an actionable decision.
func Targets(entry float64, decision model.Decision) (model.TargetSet, error) {
	if !(entry > 0) {
		return model.TargetSet{}, ErrInvalidEntry
	}
	if !decision.Actionable() {
		return model.TargetSet{}, fmt.Errorf("no targets for decision %q", decision)
	}
	return model.TargetSet{
		Entry: entry,
		TP1:   entry * tp1Factor,
		TP2:   entry * tp2Factor,
		TP3:   entry * tp3Factor,
		SL:    entry * slFactor,
	}, nil
}
