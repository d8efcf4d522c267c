// Package feature attaches timeframe-specific indicator columns to
// processed series.
package feature

import (
	"fmt"
	"sort"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

// Kind identifies an indicator algorithm.
type Kind string

const (
	KindSMA Kind = "sma"
	KindEMA Kind = "ema"
	KindRSI Kind = "rsi"
)

// Spec is one indicator registration: the algorithm, its window (period or
// span), and the output column name.
type Spec struct {
	Kind   Kind
	Window int
	Name   string
}

// Registry maps timeframe tags to their ordered indicator sets. Adding a
// timeframe or an indicator is a registration, not a code branch.
type Registry struct {
	byTimeframe map[model.Timeframe][]Spec
	byClass     map[model.Class][]Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byTimeframe: make(map[model.Timeframe][]Spec),
		byClass:     make(map[model.Class][]Spec),
	}
}

// Register binds an indicator set to a timeframe tag and its class. The
// class binding serves as the fallback for unregistered tags of the same
// sampling granularity.
func (r *Registry) Register(tf model.Timeframe, class model.Class, specs []Spec) {
	r.byTimeframe[tf] = specs
	r.byClass[class] = specs
}

// SpecsFor resolves the indicator set for a series. A registered timeframe
// tag wins; otherwise the series is classified by its median sampling
// interval and the class default applies.
func (r *Registry) SpecsFor(tf model.Timeframe, rows []model.Row) []Spec {
	if specs, ok := r.byTimeframe[tf]; ok {
		return specs
	}
	return r.byClass[ClassifyInterval(rows)]
}

// DefaultRegistry mirrors the shipped indicator policy: daily series get
// simple moving averages, hourly series get exponential moving averages and
// a relative-strength index.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(model.TimeframeYear, model.ClassDaily, []Spec{
		{Kind: KindSMA, Window: 5, Name: "5_day_MA"},
		{Kind: KindSMA, Window: 25, Name: "25_day_MA"},
		{Kind: KindSMA, Window: 100, Name: "100_day_MA"},
	})
	r.Register(model.Timeframe90Days, model.ClassHourly, []Spec{
		{Kind: KindEMA, Window: 9, Name: "9_hr_EMA"},
		{Kind: KindEMA, Window: 50, Name: "50_hr_EMA"},
		{Kind: KindRSI, Window: 12, Name: "12_hr_RSI"},
	})
	return r
}

// ClassifyInterval infers the sampling class from the median delta between
// consecutive timestamps. Gaps are tolerated; the median is robust to them.
func ClassifyInterval(rows []model.Row) model.Class {
	const sixHoursMs = 6 * 60 * 60 * 1000
	if len(rows) < 2 {
		return model.ClassDaily
	}
	deltas := make([]int64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		deltas = append(deltas, rows[i].Timestamp-rows[i-1].Timestamp)
	}
	median := medianInt64(deltas)
	if median < sixHoursMs {
		return model.ClassHourly
	}
	return model.ClassDaily
}

func medianInt64(v []int64) int64 {
	sorted := append([]int64{}, v...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}

// Engineer computes every registered indicator for the series' timeframe and
// returns the engineered series. A series shorter than a window still
// succeeds; that column is simply all null.
func Engineer(series *model.Series, tf model.Timeframe, registry *Registry) (*model.Series, error) {
	prices := series.Prices()
	specs := registry.SpecsFor(tf, series.Rows)

	out := &model.Series{Rows: series.Rows}
	for _, spec := range specs {
		var values []float64
		switch spec.Kind {
		case KindSMA:
			values = smaColumn(prices, spec.Window)
		case KindEMA:
			values = emaColumn(prices, spec.Window)
		case KindRSI:
			values = rsiColumn(prices, spec.Window)
		default:
			return nil, fmt.Errorf("unknown indicator kind %q", spec.Kind)
		}
		out.Indicators = append(out.Indicators, model.IndicatorColumn{Name: spec.Name, Values: values})
	}
	return out, nil
}
