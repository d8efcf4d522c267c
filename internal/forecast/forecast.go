// Package forecast fits an autoregressive integrated moving-average model
// per series and produces a fixed-length price horizon.
package forecast

import (
	"context"
	"math"
	"sort"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

// MinObservations is the default floor of non-null price observations
// required before fitting.
const MinObservations = 30

// Config bounds the deterministic order search.
type Config struct {
	MinObservations int
	MaxP            int
	MaxD            int
	MaxQ            int
}

// DefaultConfig is the shipped search grid: p in [0,3], d in [0,1],
// q in [0,2].
func DefaultConfig() Config {
	return Config{MinObservations: MinObservations, MaxP: 3, MaxD: 1, MaxQ: 2}
}

// Forecaster fits models and forecasts horizons.
type Forecaster struct {
	cfg Config
}

// New creates a Forecaster. Zero config fields fall back to the defaults.
func New(cfg Config) *Forecaster {
	def := DefaultConfig()
	if cfg.MinObservations <= 0 {
		cfg.MinObservations = def.MinObservations
	}
	if cfg.MaxP <= 0 {
		cfg.MaxP = def.MaxP
	}
	if cfg.MaxQ <= 0 {
		cfg.MaxQ = def.MaxQ
	}
	if cfg.MaxD <= 0 || cfg.MaxD > 1 {
		cfg.MaxD = def.MaxD
	}
	return &Forecaster{cfg: cfg}
}

// Fit selects the ARIMA order minimizing the AIC over the configured grid
// and forecasts exactly steps periods ahead. Candidate orders are visited in
// a fixed sequence and ties break toward fewer parameters, then lower p,
// then lower d, so the same series always yields the same forecast. The
// context bounds total fitting time.
func (f *Forecaster) Fit(ctx context.Context, series *model.Series, steps int) (*model.Forecast, error) {
	prices := make([]float64, 0, len(series.Rows))
	for _, r := range series.Rows {
		if !math.IsNaN(r.Price) {
			prices = append(prices, r.Price)
		}
	}
	if len(prices) < f.cfg.MinObservations {
		return nil, &model.InsufficientDataError{Have: len(prices), Need: f.cfg.MinObservations}
	}
	if isConstant(prices) {
		return nil, &model.ModelFitError{Reason: "constant price series"}
	}

	var fits []*arimaFit
	for d := 0; d <= f.cfg.MaxD; d++ {
		for p := 0; p <= f.cfg.MaxP; p++ {
			for q := 0; q <= f.cfg.MaxQ; q++ {
				if err := ctx.Err(); err != nil {
					return nil, &model.ModelFitError{Reason: "fit timed out"}
				}
				fit, err := fitARIMA(prices, model.Order{P: p, D: d, Q: q})
				if err != nil {
					continue
				}
				fits = append(fits, fit)
			}
		}
	}
	sort.SliceStable(fits, func(i, j int) bool { return better(fits[i], fits[j]) })

	// An unstable candidate can still diverge over the horizon; fall back
	// to the next best order instead of failing the unit.
	for _, fit := range fits {
		predicted, err := fit.predict(prices, steps)
		if err != nil {
			continue
		}
		out := &model.Forecast{Order: fit.order}
		for i, p := range predicted {
			out.Steps = append(out.Steps, model.ForecastStep{Step: i + 1, Price: p})
		}
		return out, nil
	}
	return nil, &model.ModelFitError{Reason: "no candidate order converged"}
}

// better prefers lower AIC, breaking ties toward the simpler order.
func better(a, b *arimaFit) bool {
	if a.aic != b.aic {
		return a.aic < b.aic
	}
	ka, kb := a.order.P+a.order.Q, b.order.P+b.order.Q
	if ka != kb {
		return ka < kb
	}
	if a.order.P != b.order.P {
		return a.order.P < b.order.P
	}
	return a.order.D < b.order.D
}
