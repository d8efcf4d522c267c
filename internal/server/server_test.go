package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
	"github.com/uzairmukadam/Trend-Sage/internal/store"
)

func seedDataset(t *testing.T, st *store.Store, key model.Key) {
	t.Helper()
	series := &model.Series{
		Rows: []model.Row{
			{Timestamp: 1000, Price: 10, MarketCap: 1e9, Volume: 5e6},
			{Timestamp: 2000, Price: 11, MarketCap: 1.1e9, Volume: 6e6},
		},
		Indicators: []model.IndicatorColumn{
			{Name: "5_day_MA", Values: []float64{math.NaN(), 10.5}},
		},
	}
	if err := st.WriteSeries(store.Engineered, key, series); err != nil {
		t.Fatalf("seed series: %v", err)
	}
	analysis := &model.Analysis{
		AssetID:      key.AssetID,
		Timeframe:    string(key.Timeframe),
		CurrentPrice: 11,
		Support:      10,
		Resistance:   11,
		Trend:        model.TrendUp,
	}
	if err := st.WriteAnalysis(key, analysis); err != nil {
		t.Fatalf("seed analysis: %v", err)
	}
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return New(st), st
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListDatasets(t *testing.T) {
	s, st := newTestServer(t)
	seedDataset(t, st, model.Key{AssetID: "bitcoin", Timeframe: model.TimeframeYear})

	// Engineered without analysis is not renderable and must be hidden.
	orphan := model.Key{AssetID: "tron", Timeframe: model.Timeframe90Days}
	if err := st.WriteSeries(store.Engineered, orphan, &model.Series{
		Rows: []model.Row{{Timestamp: 1000, Price: 1}},
	}); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	rec := get(t, s, "/api/datasets")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Datasets []string `json:"datasets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Datasets) != 1 || body.Datasets[0] != "bitcoin_365days" {
		t.Errorf("expected [bitcoin_365days], got %v", body.Datasets)
	}
}

func TestGetDataset(t *testing.T) {
	s, st := newTestServer(t)
	key := model.Key{AssetID: "bitcoin", Timeframe: model.TimeframeYear}
	seedDataset(t, st, key)

	rec := get(t, s, "/api/datasets/bitcoin_365days")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Chart    []map[string]any `json:"chart"`
		Analysis model.Analysis   `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Chart) != 2 {
		t.Fatalf("expected 2 chart records, got %d", len(body.Chart))
	}
	if v, ok := body.Chart[0]["5_day_MA"]; !ok || v != nil {
		t.Errorf("expected null indicator cell, got %v", v)
	}
	if body.Chart[1]["5_day_MA"] != 10.5 {
		t.Errorf("expected 10.5, got %v", body.Chart[1]["5_day_MA"])
	}
	if body.Chart[0]["timestamp"] != "1000" {
		t.Errorf("timestamps must serialize as strings, got %v", body.Chart[0]["timestamp"])
	}
	if body.Analysis.Trend != model.TrendUp || body.Analysis.CurrentPrice != 11 {
		t.Errorf("analysis mismatch: %+v", body.Analysis)
	}
}

func TestGetDataset_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{
		"/api/datasets/dogecoin_365days",
		"/api/datasets/nounderscore",
	} {
		rec := get(t, s, path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}
