package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uzairmukadam/Trend-Sage/internal/analyze"
	"github.com/uzairmukadam/Trend-Sage/internal/config"
	"github.com/uzairmukadam/Trend-Sage/internal/feature"
	"github.com/uzairmukadam/Trend-Sage/internal/fetcher"
	"github.com/uzairmukadam/Trend-Sage/internal/forecast"
	"github.com/uzairmukadam/Trend-Sage/internal/model"
	"github.com/uzairmukadam/Trend-Sage/internal/notifier"
	"github.com/uzairmukadam/Trend-Sage/internal/pipeline"
	"github.com/uzairmukadam/Trend-Sage/internal/recorder"
	"github.com/uzairmukadam/Trend-Sage/internal/scheduler"
	"github.com/uzairmukadam/Trend-Sage/internal/server"
	"github.com/uzairmukadam/Trend-Sage/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] Trend-Sage starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Open artifact store
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("[FATAL] open artifact store: %v", err)
	}

	// Init fetcher + collector
	gecko := fetcher.NewGeckoFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s", gecko.Name())

	timeframes := make([]model.Timeframe, 0, len(cfg.DataSource.Timeframes))
	for _, tf := range cfg.DataSource.Timeframes {
		timeframes = append(timeframes, model.Timeframe(tf))
	}
	col := fetcher.NewCollector(gecko, st, cfg.DataSource.Assets, timeframes)

	// Init pipeline runner
	fc := forecast.New(forecast.Config{MinObservations: cfg.Pipeline.MinObservations})
	runner := pipeline.NewRunner(st, feature.DefaultRegistry(), fc, pipeline.Config{
		Steps:      cfg.Pipeline.Steps,
		FitTimeout: time.Duration(cfg.Pipeline.FitTimeoutSec) * time.Second,
		Workers:    cfg.Pipeline.Workers,
		Analyze: analyze.Config{
			Lookback: cfg.Pipeline.Lookback,
			DeadBand: cfg.Pipeline.DeadBand,
		},
	})

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier (disabled without a token)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, runner, rec, tn)
	if err := sched.Register(cfg.Schedule.RunCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start dashboard API
	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.New(st).Handler(),
	}
	go func() {
		log.Printf("[INFO] dashboard API listening on %s", cfg.Server.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] dashboard API: %v", err)
		}
	}()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing batch task now")
		go sched.RunNow()
	}

	log.Println("[INFO] Trend-Sage is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] dashboard API shutdown: %v", err)
	}
	log.Println("[INFO] Trend-Sage stopped")
}
