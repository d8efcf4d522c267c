// Package analyze derives the support/resistance/trend summary from an
// engineered series and its forecast.
package analyze

import (
	"math"
	"strings"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

const (
	// DefaultLookback is the trailing row count scanned for support and
	// resistance.
	DefaultLookback = 30
	// DefaultDeadBand is the relative threshold below which the forecast
	// move counts as flat.
	DefaultDeadBand = 0.005
)

// Config tunes the analysis windows.
type Config struct {
	Lookback int
	DeadBand float64
}

// DefaultConfig returns the shipped analysis parameters.
func DefaultConfig() Config {
	return Config{Lookback: DefaultLookback, DeadBand: DefaultDeadBand}
}

// Analyze summarizes one engineered series. forecast may be nil when the
// upstream fit failed; the summary is still produced with the
// forecast-dependent fields null and the trend unknown. A zero-row series
// is malformed: a decoded artifact can be header-only.
func Analyze(key model.Key, series *model.Series, forecast *model.Forecast, cfg Config) (*model.Analysis, error) {
	if len(series.Rows) == 0 {
		return nil, &model.MalformedInputError{Reason: "empty series"}
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.DeadBand <= 0 {
		cfg.DeadBand = DefaultDeadBand
	}

	current := series.Rows[len(series.Rows)-1].Price
	support, resistance := trailingRange(series.Rows, cfg.Lookback)

	a := &model.Analysis{
		AssetID:      key.AssetID,
		Timeframe:    string(key.Timeframe),
		CurrentPrice: current,
		Support:      support,
		Resistance:   resistance,
		Trend:        model.TrendUnknown,
	}

	if col, ok := momentumColumn(series); ok {
		if v, ok := col.LastValid(); ok {
			a.Momentum = &v
		}
	}

	if forecast != nil {
		predicted := forecast.Final()
		a.PredictedPrice = &predicted
		a.ModelOrder = forecast.Order.String()
		a.Trend = classifyTrend(current, predicted, cfg.DeadBand)
	}
	return a, nil
}

// trailingRange scans the most recent lookback rows and returns the price
// low and high. Shorter series use every row they have.
func trailingRange(rows []model.Row, lookback int) (support, resistance float64) {
	start := len(rows) - lookback
	if start < 0 {
		start = 0
	}
	support = math.Inf(1)
	resistance = math.Inf(-1)
	for i := start; i < len(rows); i++ {
		if rows[i].Price < support {
			support = rows[i].Price
		}
		if rows[i].Price > resistance {
			resistance = rows[i].Price
		}
	}
	return support, resistance
}

// classifyTrend labels the forecast move against the current price within a
// relative dead-band.
func classifyTrend(current, predicted, deadBand float64) model.Trend {
	if current == 0 {
		return model.TrendUnknown
	}
	change := (predicted - current) / current
	switch {
	case change > deadBand:
		return model.TrendUp
	case change < -deadBand:
		return model.TrendDown
	default:
		return model.TrendFlat
	}
}

// momentumColumn finds the series' RSI column, if its timeframe carries one.
func momentumColumn(series *model.Series) (model.IndicatorColumn, bool) {
	for _, c := range series.Indicators {
		if strings.HasSuffix(c.Name, "RSI") {
			return c, true
		}
	}
	return model.IndicatorColumn{}, false
}
