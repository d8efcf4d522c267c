package analyze

import (
	"errors"
	"math"
	"testing"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

func seriesOf(prices ...float64) *model.Series {
	s := &model.Series{}
	for i, p := range prices {
		s.Rows = append(s.Rows, model.Row{Timestamp: int64(i) * 1000, Price: p})
	}
	return s
}

func forecastTo(price float64) *model.Forecast {
	return &model.Forecast{
		Order: model.Order{P: 1, D: 1, Q: 0},
		Steps: []model.ForecastStep{{Step: 1, Price: price * 0.99}, {Step: 2, Price: price}},
	}
}

func mustAnalyze(t *testing.T, key model.Key, series *model.Series, fc *model.Forecast) *model.Analysis {
	t.Helper()
	a, err := Analyze(key, series, fc, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestClassifyTrend_DeadBand(t *testing.T) {
	tests := []struct {
		current   float64
		predicted float64
		want      model.Trend
	}{
		{100, 100.2, model.TrendFlat}, // +0.2% inside the 0.5% band
		{100, 102, model.TrendUp},     // +2%
		{100, 99.8, model.TrendFlat},  // -0.2%
		{100, 97, model.TrendDown},    // -3%
		{100, 100.5, model.TrendFlat}, // exactly on the band edge
	}
	for _, tt := range tests {
		if got := classifyTrend(tt.current, tt.predicted, DefaultDeadBand); got != tt.want {
			t.Errorf("current=%v predicted=%v: expected %s, got %s", tt.current, tt.predicted, tt.want, got)
		}
	}
}

func TestAnalyze_SupportResistanceWindow(t *testing.T) {
	// 40 rows; the old extreme (price 1) sits outside the 30-row lookback.
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 50 + float64(i%7)
	}
	prices[0] = 1
	prices[35] = 80

	key := model.Key{AssetID: "bitcoin", Timeframe: model.TimeframeYear}
	a := mustAnalyze(t, key, seriesOf(prices...), forecastTo(60))

	if a.Support != 50 {
		t.Errorf("expected support 50 within lookback, got %v", a.Support)
	}
	if a.Resistance != 80 {
		t.Errorf("expected resistance 80, got %v", a.Resistance)
	}
	if a.CurrentPrice != prices[39] {
		t.Errorf("expected current price %v, got %v", prices[39], a.CurrentPrice)
	}
}

func TestAnalyze_ShortSeriesUsesAllRows(t *testing.T) {
	key := model.Key{AssetID: "tron", Timeframe: model.TimeframeYear}
	a := mustAnalyze(t, key, seriesOf(5, 3, 8), nil)
	if a.Support != 3 || a.Resistance != 8 {
		t.Errorf("expected support 3 / resistance 8, got %v / %v", a.Support, a.Resistance)
	}
}

func TestAnalyze_MissingForecast(t *testing.T) {
	key := model.Key{AssetID: "ethereum", Timeframe: model.Timeframe90Days}
	a := mustAnalyze(t, key, seriesOf(10, 11, 12), nil)
	if a.Trend != model.TrendUnknown {
		t.Errorf("expected unknown trend without forecast, got %s", a.Trend)
	}
	if a.PredictedPrice != nil {
		t.Errorf("expected null predicted price, got %v", *a.PredictedPrice)
	}
	if a.ModelOrder != "" {
		t.Errorf("expected empty model order, got %q", a.ModelOrder)
	}
}

func TestAnalyze_MomentumFromRSIColumn(t *testing.T) {
	series := seriesOf(10, 11, 12, 13)
	series.Indicators = []model.IndicatorColumn{
		{Name: "9_hr_EMA", Values: []float64{math.NaN(), 10.5, 11.2, 12.1}},
		{Name: "12_hr_RSI", Values: []float64{math.NaN(), math.NaN(), 71.5, math.NaN()}},
	}
	key := model.Key{AssetID: "bitcoin", Timeframe: model.Timeframe90Days}
	a := mustAnalyze(t, key, series, forecastTo(13.1))
	if a.Momentum == nil || *a.Momentum != 71.5 {
		t.Errorf("expected momentum 71.5 from latest non-null RSI, got %v", a.Momentum)
	}
}

func TestAnalyze_ExtremesAreHistorical(t *testing.T) {
	// Support and resistance are window extremes, not bounds on the
	// current price; a closing rally puts current at the resistance.
	series := seriesOf(10, 12, 11, 25)
	key := model.Key{AssetID: "bitcoin", Timeframe: model.TimeframeYear}
	a := mustAnalyze(t, key, series, nil)
	if a.Support != 10 || a.Resistance != 25 {
		t.Errorf("expected extremes 10/25, got %v/%v", a.Support, a.Resistance)
	}
	if a.CurrentPrice != 25 {
		t.Errorf("expected current 25, got %v", a.CurrentPrice)
	}
}

func TestAnalyze_EmptySeries(t *testing.T) {
	key := model.Key{AssetID: "bitcoin", Timeframe: model.TimeframeYear}
	_, err := Analyze(key, &model.Series{}, nil, DefaultConfig())
	var malformed *model.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError for empty series, got %v", err)
	}
}
