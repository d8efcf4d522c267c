// Package pipeline drives each (asset, timeframe) unit through the four
// transformation stages with per-unit fault isolation.
package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/uzairmukadam/Trend-Sage/internal/analyze"
	"github.com/uzairmukadam/Trend-Sage/internal/feature"
	"github.com/uzairmukadam/Trend-Sage/internal/forecast"
	"github.com/uzairmukadam/Trend-Sage/internal/model"
	"github.com/uzairmukadam/Trend-Sage/internal/preprocess"
	"github.com/uzairmukadam/Trend-Sage/internal/store"
)

// Stage names one pipeline step for outcome reporting.
type Stage string

const (
	StagePreprocess Stage = "preprocess"
	StageEngineer   Stage = "engineer"
	StageForecast   Stage = "forecast"
	StageAnalyze    Stage = "analyze"
)

// UnitOutcome is the per-unit result of one run. Err is nil on success;
// Stage is the stage that failed, or StageAnalyze when the unit completed.
type UnitOutcome struct {
	Key       model.Key
	Stage     Stage
	Err       error
	Trend     model.Trend
	Predicted *float64
	Duration  time.Duration
}

// Failed reports whether the unit produced no analysis.
func (o UnitOutcome) Failed() bool { return o.Err != nil }

// ErrorClass buckets a unit error into the failure taxonomy.
func ErrorClass(err error) string {
	var malformed *model.MalformedInputError
	var insufficient *model.InsufficientDataError
	var fitErr *model.ModelFitError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &malformed):
		return "malformed_input"
	case errors.As(err, &insufficient):
		return "insufficient_data"
	case errors.As(err, &fitErr):
		return "model_fit"
	default:
		return "io"
	}
}

// RunSummary aggregates one batch pass.
type RunSummary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []UnitOutcome
}

// Succeeded counts completed units.
func (s *RunSummary) Succeeded() int {
	n := 0
	for _, o := range s.Outcomes {
		if !o.Failed() {
			n++
		}
	}
	return n
}

// Failed counts skipped units.
func (s *RunSummary) Failed() int { return len(s.Outcomes) - s.Succeeded() }

// Config tunes a Runner.
type Config struct {
	Steps      int           // forecast horizon length
	FitTimeout time.Duration // per-unit model fitting budget
	Workers    int           // concurrent units
	Analyze    analyze.Config
}

// Runner owns one batch pass over the artifact store.
type Runner struct {
	store      *store.Store
	registry   *feature.Registry
	forecaster *forecast.Forecaster
	cfg        Config
}

// NewRunner wires a Runner. Zero config fields take defaults: 30 steps,
// 60s fit timeout, 4 workers.
func NewRunner(st *store.Store, registry *feature.Registry, fc *forecast.Forecaster, cfg Config) *Runner {
	if cfg.Steps <= 0 {
		cfg.Steps = 30
	}
	if cfg.FitTimeout <= 0 {
		cfg.FitTimeout = 60 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Runner{store: st, registry: registry, forecaster: fc, cfg: cfg}
}

// Run pushes every raw unit through preprocess, engineer, forecast and
// analyze. Units run concurrently on a bounded pool; each unit's artifacts
// have exactly one writer, and a failure in one unit never cancels its
// siblings.
func (r *Runner) Run(ctx context.Context) (*RunSummary, error) {
	keys, err := r.store.List(store.Raw)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{StartedAt: time.Now()}
	sem := make(chan struct{}, r.cfg.Workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, key := range keys {
		wg.Add(1)
		go func(key model.Key) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome := r.runUnit(ctx, key)
			if outcome.Failed() {
				log.Printf("[ERROR] unit %s failed at %s: %v", key, outcome.Stage, outcome.Err)
			} else {
				log.Printf("[INFO] unit %s analyzed: trend=%s", key, outcome.Trend)
			}
			mu.Lock()
			summary.Outcomes = append(summary.Outcomes, outcome)
			mu.Unlock()
		}(key)
	}
	wg.Wait()
	summary.FinishedAt = time.Now()
	return summary, nil
}

// runUnit executes all stages for one key. Already-published artifacts are
// kept as-is, so re-running is idempotent. A forecast-stage failure is
// recorded but still yields a partial analysis.
func (r *Runner) runUnit(ctx context.Context, key model.Key) UnitOutcome {
	started := time.Now()
	outcome := UnitOutcome{Key: key, Trend: model.TrendUnknown}
	fail := func(stage Stage, err error) UnitOutcome {
		outcome.Stage = stage
		outcome.Err = err
		outcome.Duration = time.Since(started)
		return outcome
	}

	// Preprocess.
	if !r.store.Has(store.Processed, key) {
		chart, err := r.store.ReadRaw(key)
		if err != nil {
			return fail(StagePreprocess, err)
		}
		series, err := preprocess.Process(chart)
		if err != nil {
			return fail(StagePreprocess, err)
		}
		if err := r.store.WriteSeries(store.Processed, key, series); err != nil {
			return fail(StagePreprocess, err)
		}
	}

	// Engineer.
	if !r.store.Has(store.Engineered, key) {
		series, err := r.store.ReadSeries(store.Processed, key)
		if err != nil {
			return fail(StageEngineer, err)
		}
		engineered, err := feature.Engineer(series, key.Timeframe, r.registry)
		if err != nil {
			return fail(StageEngineer, err)
		}
		if err := r.store.WriteSeries(store.Engineered, key, engineered); err != nil {
			return fail(StageEngineer, err)
		}
	}

	engineered, err := r.store.ReadSeries(store.Engineered, key)
	if err != nil {
		return fail(StageEngineer, err)
	}

	// Forecast. A fit failure is remembered but does not stop the unit:
	// the analyzer still emits a partial summary.
	var fitErr error
	if !r.store.Has(store.Forecast, key) {
		fitCtx, cancel := context.WithTimeout(ctx, r.cfg.FitTimeout)
		fc, err := r.forecaster.Fit(fitCtx, engineered, r.cfg.Steps)
		cancel()
		if err != nil {
			fitErr = err
		} else if err := r.store.WriteForecast(key, fc); err != nil {
			return fail(StageForecast, err)
		}
	}

	var fc *model.Forecast
	if r.store.Has(store.Forecast, key) {
		fc, err = r.store.ReadForecast(key)
		if err != nil {
			return fail(StageForecast, err)
		}
	}

	// Analyze.
	analysis, err := analyze.Analyze(key, engineered, fc, r.cfg.Analyze)
	if err != nil {
		return fail(StageAnalyze, err)
	}
	if err := r.store.WriteAnalysis(key, analysis); err != nil {
		return fail(StageAnalyze, err)
	}

	if fitErr != nil {
		return fail(StageForecast, fitErr)
	}
	outcome.Stage = StageAnalyze
	outcome.Trend = analysis.Trend
	outcome.Predicted = analysis.PredictedPrice
	outcome.Duration = time.Since(started)
	return outcome
}
