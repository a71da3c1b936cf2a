package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"FuturesScanner/internal/api"
	"FuturesScanner/internal/collector"
	"FuturesScanner/internal/config"
	"FuturesScanner/internal/logger"
	"FuturesScanner/internal/metrics"
	"FuturesScanner/internal/notifier"
	"FuturesScanner/internal/recorder"
	"FuturesScanner/internal/scanner"
	"FuturesScanner/internal/scheduler"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	logger.Init("futures-scanner", cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("config", cfgPath).Msg("FuturesScanner starting")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("load timezone")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := collector.NewBinanceFetcher(cfg.Exchange.BaseURL, cfg.Proxy, cfg.Exchange.RequestTimeout, cfg.Exchange.RateLimit)
	log.Info().Str("source", fetcher.Name()).Str("base_url", cfg.Exchange.BaseURL).Msg("data source")

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if !tn.Enabled() {
		log.Warn().Msg("telegram credentials not set, notifications disabled")
	}

	rec, sqliteRec := openRecorders(ctx, cfg)
	defer func() {
		if err := rec.Close(); err != nil {
			log.Error().Err(err).Msg("close recorders")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	sc := scanner.New(fetcher, tn, rec, m, scanner.Options{
		QuoteAsset:        cfg.Exchange.QuoteAsset,
		ContractType:      cfg.Exchange.ContractType,
		MaxSymbols:        cfg.Exchange.MaxSymbols,
		Interval:          cfg.Exchange.Interval,
		Limit:             cfg.Exchange.Limit,
		Workers:           cfg.Scan.Workers,
		InstrumentTimeout: cfg.Scan.InstrumentTimeout,
		SideEffectTimeout: cfg.Scan.SideEffectTimeout,
		Location:          loc,
	})

	sched := scheduler.NewScheduler(ctx, sc, cfg.Scan.Interval)
	if err := sched.Register(); err != nil {
		log.Fatal().Err(err).Msg("register scan job")
	}
	sched.Start()

	var signals api.SignalSource
	if sqliteRec != nil {
		signals = sqliteRec
	}
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.NewHandler(sched, signals, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	if cfg.Telegram.Polling && tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if cfg.Scan.RunOnStart {
		log.Info().Msg("run_on_start enabled, scanning now")
		go func() {
			if _, err := sched.RunNow(ctx); err != nil {
				log.Warn().Err(err).Msg("initial scan failed")
			}
		}()
	}

	log.Info().Dur("interval", cfg.Scan.Interval).Msg("FuturesScanner is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("FuturesScanner stopped")
}

// openRecorders builds the signal log fan-out. The CSV log is required; SQLite
// and Redis are optional and skipped with a warning when they cannot be opened.
// The SQLite recorder is also returned so /signals can read from it.
func openRecorders(ctx context.Context, cfg *config.Config) (recorder.Recorder, *recorder.SQLiteRecorder) {
	var recs recorder.Multi

	csvRec, err := recorder.NewCSVRecorder(cfg.SignalLog.CSVPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open csv signal log")
	}
	recs = append(recs, csvRec)

	var sqliteRec *recorder.SQLiteRecorder
	if cfg.SignalLog.SQLitePath != "" {
		sqliteRec, err = recorder.NewSQLiteRecorder(cfg.SignalLog.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, skipping")
		} else {
			recs = append(recs, sqliteRec)
		}
	}

	if cfg.SignalLog.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		redisRec, err := recorder.NewRedisRecorder(pingCtx, cfg.SignalLog.RedisAddr, cfg.SignalLog.RedisPassword, cfg.SignalLog.RedisChannel)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("init redis recorder failed, skipping")
		} else {
			recs = append(recs, redisRec)
		}
	}

	if len(recs) == 1 {
		return csvRec, sqliteRec
	}
	return recs, sqliteRec
}
