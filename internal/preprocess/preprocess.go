// Package preprocess normalizes raw market charts into tabular series.
package preprocess

import (
	"fmt"
	"sort"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

// Process joins the three aligned chart arrays into one series, sorted by
// timestamp with duplicates dropped (first occurrence wins). It is pure: the
// same chart always yields the identical series.
func Process(chart *model.RawChart) (*model.Series, error) {
	n := len(chart.Prices)
	if len(chart.MarketCaps) != n || len(chart.TotalVolumes) != n {
		return nil, &model.MalformedInputError{
			Reason: fmt.Sprintf("array lengths differ: prices=%d market_caps=%d total_volumes=%d",
				n, len(chart.MarketCaps), len(chart.TotalVolumes)),
		}
	}
	if n == 0 {
		return nil, &model.MalformedInputError{Reason: "chart has no records"}
	}

	rows := make([]model.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = model.Row{
			Timestamp: int64(chart.Prices[i][0]),
			Price:     chart.Prices[i][1],
			MarketCap: chart.MarketCaps[i][1],
			Volume:    chart.TotalVolumes[i][1],
		}
	}

	// Stable sort so the first occurrence of a duplicated timestamp keeps
	// its input-order priority before deduplication.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })

	deduped := rows[:0]
	for i, r := range rows {
		if i > 0 && r.Timestamp == deduped[len(deduped)-1].Timestamp {
			continue
		}
		deduped = append(deduped, r)
	}

	return &model.Series{Rows: deduped}, nil
}
