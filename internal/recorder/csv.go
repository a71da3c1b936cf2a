package recorder

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"FuturesScanner/internal/model"
)

// CSVRecorder appends one row per signal to a CSV file:
// timestamp, symbol, direction, entry, tp1, tp2, tp3, sl.
type CSVRecorder struct {
	mu   sync.Mutex
	path string
}

// NewCSVRecorder checks that path can be opened for appending.
func NewCSVRecorder(path string) (*CSVRecorder, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &CSVRecorder{path: path}, nil
}

// RecordSignal appends a row. Appends are serialized so concurrent writers never
// interleave rows.
func (r *CSVRecorder) RecordSignal(_ context.Context, e *model.SignalLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv log: %w", err)
	}
	w := csv.NewWriter(f)
	werr := w.Write([]string{
		e.Timestamp,
		e.Symbol,
		string(e.Direction),
		formatFloat(e.Entry),
		formatFloat(e.TP1),
		formatFloat(e.TP2),
		formatFloat(e.TP3),
		formatFloat(e.SL),
	})
	if werr == nil {
		w.Flush()
		werr = w.Error()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("append csv row: %w", werr)
	}
	return nil
}

func (r *CSVRecorder) Close() error { return nil }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
