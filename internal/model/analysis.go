package model

// Trend labels the direction implied by the forecast against the current
// price, within a dead-band.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendFlat    Trend = "flat"
	TrendUnknown Trend = "unknown"
)

// Analysis is the flat scalar summary for one key. Pointer fields are null
// when the forecast is missing or the timeframe carries no momentum column.
// Support and resistance are historical extremes over a trailing window;
// the current price is not guaranteed to sit between them.
type Analysis struct {
	AssetID        string   `json:"asset_id"`
	Timeframe      string   `json:"timeframe"`
	CurrentPrice   float64  `json:"current_price"`
	Support        float64  `json:"support"`
	Resistance     float64  `json:"resistance"`
	Momentum       *float64 `json:"momentum"`
	PredictedPrice *float64 `json:"predicted_price"`
	ModelOrder     string   `json:"model_order,omitempty"`
	Trend          Trend    `json:"trend"`
}
