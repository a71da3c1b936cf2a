// Package metrics exposes Prometheus collectors for scan cycles.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the scanner.
type Metrics struct {
	ScansTotal         *prometheus.CounterVec // labels: outcome=ok|error
	ScanDuration       prometheus.Histogram
	LastScanTimestamp  prometheus.Gauge
	InstrumentsTotal   *prometheus.CounterVec // labels: outcome=result|fetch|compute|no_signal
	SignalsTotal       *prometheus.CounterVec // labels: decision
	SideEffectFailures *prometheus.CounterVec // labels: stage=notify|log
}

// NewMetrics creates the collectors and registers them on reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_scans_total",
			Help: "Completed scan cycles by outcome",
		}, []string{"outcome"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanner_scan_duration_seconds",
			Help:    "Wall time of a full scan cycle",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		LastScanTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanner_last_scan_timestamp_seconds",
			Help: "Unix time of the last successful scan",
		}),
		InstrumentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_instruments_total",
			Help: "Instruments processed by outcome",
		}, []string{"outcome"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_signals_total",
			Help: "Signal results by decision",
		}, []string{"decision"}),
		SideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_side_effect_failures_total",
			Help: "Failed notify/log side effects",
		}, []string{"stage"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ScansTotal,
			m.ScanDuration,
			m.LastScanTimestamp,
			m.InstrumentsTotal,
			m.SignalsTotal,
			m.SideEffectFailures,
		)
	}
	return m
}
