package recorder

import (
	"context"
	"errors"

	"FuturesScanner/internal/model"
)

// Recorder appends actionable signals to a persistent log.
type Recorder interface {
	RecordSignal(ctx context.Context, entry *model.SignalLogEntry) error
	Close() error
}

// Multi fans a signal out to several recorders. Every recorder is attempted;
// failures are joined.
type Multi []Recorder

func (m Multi) RecordSignal(ctx context.Context, entry *model.SignalLogEntry) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordSignal(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
