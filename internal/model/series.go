package model

import (
	"fmt"
	"math"
	"strings"
)

// Timeframe tags a series by its look-back range, e.g. "365days" (daily
// sampling) or "90days" (hourly sampling). The tag decides which indicator
// set applies downstream.
type Timeframe string

const (
	TimeframeYear   Timeframe = "365days"
	Timeframe90Days Timeframe = "90days"
)

// Class is the sampling-granularity family of a timeframe.
type Class string

const (
	ClassDaily  Class = "daily"
	ClassHourly Class = "hourly"
)

// Key addresses one artifact per collection: one asset at one timeframe.
type Key struct {
	AssetID   string
	Timeframe Timeframe
}

// Name returns the artifact file stem, e.g. "bitcoin_365days".
func (k Key) Name() string {
	return fmt.Sprintf("%s_%s", k.AssetID, k.Timeframe)
}

func (k Key) String() string { return k.Name() }

// ParseKey splits an artifact name back into its key. The timeframe is the
// last underscore-separated component; asset ids may contain underscores.
func ParseKey(name string) (Key, error) {
	i := strings.LastIndex(name, "_")
	if i <= 0 || i == len(name)-1 {
		return Key{}, fmt.Errorf("malformed artifact name %q", name)
	}
	return Key{AssetID: name[:i], Timeframe: Timeframe(name[i+1:])}, nil
}

// RawChart is the market-chart payload as delivered by the fetch boundary:
// three parallel arrays of [epoch-ms, value] pairs.
type RawChart struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// Row is one sampling interval of a processed series.
type Row struct {
	Timestamp int64
	Price     float64
	MarketCap float64
	Volume    float64
}

// IndicatorColumn is one engineered column. Values align 1:1 with the series
// rows; NaN marks cells before the window has filled.
type IndicatorColumn struct {
	Name   string
	Values []float64
}

// Series is a processed or engineered series: base rows in timestamp order
// plus zero or more indicator columns.
type Series struct {
	Rows       []Row
	Indicators []IndicatorColumn
}

// Prices returns the price column.
func (s *Series) Prices() []float64 {
	prices := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		prices[i] = r.Price
	}
	return prices
}

// Indicator returns the named column, if present.
func (s *Series) Indicator(name string) (IndicatorColumn, bool) {
	for _, c := range s.Indicators {
		if c.Name == name {
			return c, true
		}
	}
	return IndicatorColumn{}, false
}

// LastValid returns the most recent non-NaN value of the column.
func (c IndicatorColumn) LastValid() (float64, bool) {
	for i := len(c.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(c.Values[i]) {
			return c.Values[i], true
		}
	}
	return 0, false
}
