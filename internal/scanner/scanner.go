// Package scanner runs one full scan cycle: it lists the instrument universe,
// runs the fetch → indicators → evaluation pipeline for every instrument with
// per-instrument failure isolation, dispatches notify/log side effects for
// actionable decisions and aggregates the results into a report.
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"FuturesScanner/internal/calculator"
	"FuturesScanner/internal/collector"
	"FuturesScanner/internal/metrics"
	"FuturesScanner/internal/model"
	"FuturesScanner/internal/notifier"
	"FuturesScanner/internal/recorder"
	"FuturesScanner/internal/strategy"
)

// Options controls universe selection, candle requests and timeouts.
type Options struct {
	QuoteAsset        string
	ContractType      string
	MaxSymbols        int
	Interval          string
	Limit             int
	Workers           int
	InstrumentTimeout time.Duration
	SideEffectTimeout time.Duration
	Location          *time.Location
	Params            calculator.Params
}

// DefaultOptions returns USDT perpetuals, 200 symbols, 100 x 15m candles.
func DefaultOptions() Options {
	return Options{
		QuoteAsset:        "USDT",
		ContractType:      "PERPETUAL",
		MaxSymbols:        200,
		Interval:          "15m",
		Limit:             100,
		Workers:           1,
		InstrumentTimeout: 15 * time.Second,
		SideEffectTimeout: 10 * time.Second,
		Location:          time.UTC,
		Params:            calculator.DefaultParams(),
	}
}

type evaluateFunc func(symbol string, frame model.IndicatorFrame, at time.Time) (model.SignalResult, bool)

// Scanner is the scan orchestrator.
type Scanner struct {
	fetcher  collector.Fetcher
	notifier notifier.Notifier
	recorder recorder.Recorder
	metrics  *metrics.Metrics
	opts     Options

	now      func() time.Time
	evaluate evaluateFunc
}

// New creates a Scanner. Zero-valued options fall back to DefaultOptions; a nil
// recorder disables the signal log.
func New(f collector.Fetcher, n notifier.Notifier, r recorder.Recorder, m *metrics.Metrics, opts Options) *Scanner {
	def := DefaultOptions()
	if opts.QuoteAsset == "" {
		opts.QuoteAsset = def.QuoteAsset
	}
	if opts.ContractType == "" {
		opts.ContractType = def.ContractType
	}
	if opts.Interval == "" {
		opts.Interval = def.Interval
	}
	if opts.Limit <= 0 {
		opts.Limit = def.Limit
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.InstrumentTimeout <= 0 {
		opts.InstrumentTimeout = def.InstrumentTimeout
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = def.SideEffectTimeout
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.Params == (calculator.Params{}) {
		opts.Params = def.Params
	}
	if r == nil {
		r = recorder.NewNoopRecorder()
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &Scanner{
		fetcher:  f,
		notifier: n,
		recorder: r,
		metrics:  m,
		opts:     opts,
		now:      time.Now,
		evaluate: strategy.Evaluate,
	}
}

type outcome struct {
	result *model.SignalResult
	skip   *model.Skip
}

// Scan runs one full cycle. A failure to list the universe, or cancellation of
// ctx, aborts the cycle and is returned as an error; every other failure is
// isolated to its instrument and reported in ScanReport.Skipped.
func (s *Scanner) Scan(ctx context.Context) (*model.ScanReport, error) {
	start := time.Now()
	scanID := uuid.NewString()
	logger := log.With().Str("scan_id", scanID).Logger()

	report, err := s.scan(ctx, logger)
	s.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ScansTotal.WithLabelValues("error").Inc()
		logger.Error().Err(err).Msg("scan failed")
		return nil, err
	}
	report.ScanID = scanID
	s.metrics.ScansTotal.WithLabelValues("ok").Inc()
	s.metrics.LastScanTimestamp.SetToCurrentTime()
	logger.Info().
		Int("results", report.Count).
		Int("skipped", len(report.Skipped)).
		Dur("took", time.Since(start)).
		Msg("scan complete")
	return report, nil
}

func (s *Scanner) scan(ctx context.Context, logger zerolog.Logger) (*model.ScanReport, error) {
	instruments, err := s.fetcher.Instruments(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageUniverse, Err: err}
	}
	symbols := FilterUniverse(instruments, s.opts.QuoteAsset, s.opts.ContractType, s.opts.MaxSymbols)
	logger.Info().Int("symbols", len(symbols)).Str("source", s.fetcher.Name()).Msg("scan started")

	outcomes := make([]outcome, len(symbols))
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		i, symbol := i, symbol
		g.Go(func() error {
			outcomes[i] = s.processInstrument(ctx, logger, symbol)
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	report := &model.ScanReport{Results: make([]model.SignalResult, 0, len(symbols))}
	for _, o := range outcomes {
		switch {
		case o.result != nil:
			report.Results = append(report.Results, *o.result)
		case o.skip != nil:
			report.Skipped = append(report.Skipped, *o.skip)
		}
	}
	report.Count = len(report.Results)
	return report, nil
}

// processInstrument runs fetch → compute → evaluate → side effects for one symbol.
func (s *Scanner) processInstrument(ctx context.Context, logger zerolog.Logger, symbol string) outcome {
	logger = logger.With().Str("symbol", symbol).Logger()

	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.InstrumentTimeout)
	candles, err := s.fetcher.FetchCandles(fetchCtx, symbol, s.opts.Interval, s.opts.Limit)
	cancel()
	if err != nil {
		return s.skip(logger, &StageError{Symbol: symbol, Stage: StageFetch, Err: err})
	}

	frame, err := calculator.Compute(candles, s.opts.Params)
	if err != nil {
		return s.skip(logger, &StageError{Symbol: symbol, Stage: StageCompute, Err: err})
	}

	res, ok := s.evaluate(symbol, frame, s.now().In(s.opts.Location))
	if !ok {
		s.metrics.InstrumentsTotal.WithLabelValues(string(model.StageNoSignal)).Inc()
		logger.Debug().Int("rows", len(frame)).Msg("not enough indicator history")
		return outcome{skip: &model.Skip{
			Symbol: symbol,
			Stage:  model.StageNoSignal,
			Reason: fmt.Sprintf("%d usable indicator rows", len(frame)),
		}}
	}

	s.metrics.InstrumentsTotal.WithLabelValues("result").Inc()
	s.metrics.SignalsTotal.WithLabelValues(string(res.Decision)).Inc()
	if res.Decision.Actionable() {
		logger.Info().
			Str("decision", string(res.Decision)).
			Int("score_buy", res.ScoreBuy).
			Int("score_sell", res.ScoreSell).
			Strs("factors", res.Factors).
			Float64("price", res.Price).
			Msg("signal")
		for _, err := range s.dispatch(ctx, res) {
			s.metrics.SideEffectFailures.WithLabelValues(string(err.Stage)).Inc()
			logger.Warn().Err(err.Err).Str("stage", string(err.Stage)).Msg("side effect failed")
		}
	}
	return outcome{result: &res}
}

func (s *Scanner) skip(logger zerolog.Logger, err *StageError) outcome {
	s.metrics.InstrumentsTotal.WithLabelValues(string(err.Stage)).Inc()
	logger.Warn().Err(err.Err).Str("stage", string(err.Stage)).Msg("instrument skipped")
	return outcome{skip: &model.Skip{
		Symbol: err.Symbol,
		Stage:  model.SkipStage(err.Stage),
		Reason: err.Err.Error(),
	}}
}

// dispatch sends the notification and appends the log row. Both are attempted
// independently and their failures returned without retry.
func (s *Scanner) dispatch(ctx context.Context, res model.SignalResult) []*StageError {
	targets, err := strategy.Targets(res.Price, res.Decision)
	if err != nil {
		return []*StageError{{Symbol: res.Symbol, Stage: StageCompute, Err: err}}
	}

	var errs []*StageError

	notifyCtx, cancel := context.WithTimeout(ctx, s.opts.SideEffectTimeout)
	err = s.notifier.Notify(notifyCtx, notifier.FormatSignal(res.Symbol, res.Decision, targets))
	cancel()
	if err != nil {
		errs = append(errs, &StageError{Symbol: res.Symbol, Stage: StageNotify, Err: err})
	}

	logCtx, cancel := context.WithTimeout(ctx, s.opts.SideEffectTimeout)
	err = s.recorder.RecordSignal(logCtx, &model.SignalLogEntry{
		Timestamp: res.Timestamp,
		Symbol:    res.Symbol,
		Direction: res.Decision,
		Entry:     targets.Entry,
		TP1:       targets.TP1,
		TP2:       targets.TP2,
		TP3:       targets.TP3,
		SL:        targets.SL,
	})
	cancel()
	if err != nil {
		errs = append(errs, &StageError{Symbol: res.Symbol, Stage: StageLog, Err: err})
	}
	return errs
}
