package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/uzairmukadam/Trend-Sage/internal/fetcher"
	"github.com/uzairmukadam/Trend-Sage/internal/notifier"
	"github.com/uzairmukadam/Trend-Sage/internal/pipeline"
	"github.com/uzairmukadam/Trend-Sage/internal/recorder"
)

// Scheduler runs the fetch-then-pipeline batch on a cron expression.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *fetcher.Collector
	Runner    *pipeline.Runner
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier
	Ctx       context.Context
}

// NewScheduler creates a Scheduler.
func NewScheduler(ctx context.Context, col *fetcher.Collector, runner *pipeline.Runner, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Runner:    runner,
		Recorder:  rec,
		Notifier:  tn,
		Ctx:       ctx,
	}
}

// Register installs the periodic batch task.
func (s *Scheduler) Register(runCron string) error {
	if _, err := s.Cron.AddFunc(runCron, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the batch task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runTask()
}

func (s *Scheduler) runTask() {
	log.Println("[INFO] running batch task")
	s.Collector.Collect(s.Ctx)

	summary, err := s.Runner.Run(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] pipeline run: %v", err)
		return
	}
	log.Printf("[INFO] run finished: %d ok, %d failed", summary.Succeeded(), summary.Failed())

	if err := s.Recorder.RecordRun(summary); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}

	if s.Notifier != nil && s.Notifier.Enabled() {
		report := notifier.FormatRunReport(summary)
		if err := s.Notifier.SendWithRetry(s.Ctx, report, 3); err != nil {
			log.Printf("[ERROR] send run report: %v", err)
		}
	}
}
