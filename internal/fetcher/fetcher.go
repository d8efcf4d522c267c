// Package fetcher retrieves raw market-chart data and stores it as raw
// artifacts for the pipeline.
package fetcher

import (
	"context"
	"log"
	"math"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
	"github.com/uzairmukadam/Trend-Sage/internal/store"
)

// Fetcher defines the interface for fetching one asset's market chart.
type Fetcher interface {
	FetchMarketChart(ctx context.Context, assetID string, tf model.Timeframe) (*model.RawChart, error)
	Name() string
}

// MockFetcher returns controllable synthetic data for development and
// testing.
type MockFetcher struct {
	Chart *model.RawChart
	Count int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchMarketChart(_ context.Context, _ string, tf model.Timeframe) (*model.RawChart, error) {
	if m.Chart != nil {
		return m.Chart, nil
	}
	count := m.Count
	if count == 0 {
		count = 120
	}
	interval := int64(24 * 60 * 60 * 1000)
	if tf == model.Timeframe90Days {
		interval = 60 * 60 * 1000
	}
	return GenerateMockChart(30000, count, interval), nil
}

// GenerateMockChart builds a gently oscillating chart of count records at
// the given sampling interval.
func GenerateMockChart(basePrice float64, count int, intervalMs int64) *model.RawChart {
	chart := &model.RawChart{}
	start := int64(1700000000000)
	for i := 0; i < count; i++ {
		ts := float64(start + int64(i)*intervalMs)
		price := basePrice * (1 + 0.02*math.Sin(float64(i)/7) + 0.001*float64(i))
		chart.Prices = append(chart.Prices, [2]float64{ts, price})
		chart.MarketCaps = append(chart.MarketCaps, [2]float64{ts, price * 1e6})
		chart.TotalVolumes = append(chart.TotalVolumes, [2]float64{ts, 1e7 + 1e5*float64(i%24)})
	}
	return chart
}

// Collector fetches every configured (asset, timeframe) pair and publishes
// the raw artifacts. Per-pair failures are logged and skipped.
type Collector struct {
	Fetcher    Fetcher
	Store      *store.Store
	Assets     []string
	Timeframes []model.Timeframe
}

// NewCollector creates a Collector.
func NewCollector(f Fetcher, st *store.Store, assets []string, timeframes []model.Timeframe) *Collector {
	return &Collector{Fetcher: f, Store: st, Assets: assets, Timeframes: timeframes}
}

// Collect fetches and stores all configured charts.
func (c *Collector) Collect(ctx context.Context) {
	for _, asset := range c.Assets {
		for _, tf := range c.Timeframes {
			key := model.Key{AssetID: asset, Timeframe: tf}
			chart, err := c.Fetcher.FetchMarketChart(ctx, asset, tf)
			if err != nil {
				log.Printf("[WARN] fetch %s: %v", key, err)
				continue
			}
			if err := c.Store.WriteRaw(key, chart); err != nil {
				log.Printf("[ERROR] store raw %s: %v", key, err)
				continue
			}
			log.Printf("[INFO] fetched %s (%d records)", key, len(chart.Prices))
		}
	}
}
