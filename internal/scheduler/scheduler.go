package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"FuturesScanner/internal/model"
	"FuturesScanner/internal/notifier"
)

// DefaultInterval is the period between scheduled scans.
const DefaultInterval = 5 * time.Minute

// Runner executes one scan cycle.
type Runner interface {
	Scan(ctx context.Context) (*model.ScanReport, error)
}

// Scheduler triggers scans periodically and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Interval time.Duration
	Ctx      context.Context

	running atomic.Int32

	mu         sync.Mutex
	lastRun    time.Time
	lastReport *model.ScanReport
}

// NewScheduler creates a Scheduler. Scheduled runs are skipped while the
// previous one is still in progress, and a panicking run is recovered.
func NewScheduler(ctx context.Context, runner Runner, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cronLogger{}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		Runner:   runner,
		Interval: interval,
		Ctx:      ctx,
	}
}

// Register adds the periodic scan job.
func (s *Scheduler) Register() error {
	if _, err := s.Cron.AddFunc(fmt.Sprintf("@every %s", s.Interval), s.scheduledScan); err != nil {
		return fmt.Errorf("register scan job: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Dur("interval", s.Interval).Msg("scheduler started")
}

// Stop halts future triggers and waits for a running scheduled scan to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes one scan immediately and records it as the latest.
func (s *Scheduler) RunNow(ctx context.Context) (*model.ScanReport, error) {
	s.running.Add(1)
	defer s.running.Add(-1)

	report, err := s.Runner.Scan(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastReport = report
	s.mu.Unlock()
	return report, nil
}

// Running reports whether a scan is in progress.
func (s *Scheduler) Running() bool {
	return s.running.Load() > 0
}

// Last returns the time and report of the latest successful scan.
func (s *Scheduler) Last() (time.Time, *model.ScanReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastReport
}

// scheduledScan never propagates a failure; the next tick runs regardless.
func (s *Scheduler) scheduledScan() {
	if s.Ctx.Err() != nil {
		return
	}
	if _, err := s.RunNow(s.Ctx); err != nil {
		log.Warn().Err(err).Msg("scheduled scan failed")
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch commandName(command) {
	case "/scan":
		report, err := s.RunNow(ctx)
		if err != nil {
			return fmt.Sprintf("Scan failed: %v", err)
		}
		return notifier.FormatScanSummary(report)
	case "/status":
		last, report := s.Last()
		return notifier.FormatStatus(last, report, s.Running())
	default:
		return "Available commands:\n/scan - run a scan now\n/status - last scan status"
	}
}

// commandName strips arguments and a trailing @botname.
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}
