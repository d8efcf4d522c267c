package feature

import (
	"math"
	"testing"
)

func TestSMAColumn_WindowMean(t *testing.T) {
	values := smaColumn([]float64{1, 2, 3, 4, 5}, 3)
	if !math.IsNaN(values[0]) || !math.IsNaN(values[1]) {
		t.Error("expected null cells before the window fills")
	}
	if values[2] != 2.0 {
		t.Errorf("expected SMA 2.0 at index 2, got %v", values[2])
	}
	if values[3] != 3.0 || values[4] != 4.0 {
		t.Errorf("unexpected tail values: %v", values[2:])
	}
}

func TestSMAColumn_ShortSeries(t *testing.T) {
	values := smaColumn([]float64{1, 2}, 5)
	for i, v := range values {
		if !math.IsNaN(v) {
			t.Errorf("expected all-null column, index %d = %v", i, v)
		}
	}
}

func TestEMAColumn_SeededWithSimpleMean(t *testing.T) {
	values := emaColumn([]float64{1, 2, 3, 4}, 3)
	if !math.IsNaN(values[0]) || !math.IsNaN(values[1]) {
		t.Error("expected null cells before the seed window fills")
	}
	if values[2] != 2.0 {
		t.Errorf("expected seed (1+2+3)/3 = 2.0 at index 2, got %v", values[2])
	}
	// alpha = 2/(3+1) = 0.5, ema = 0.5*4 + 0.5*2
	if values[3] != 3.0 {
		t.Errorf("expected 3.0 at index 3, got %v", values[3])
	}
}

func TestRSIColumn_MonotonicIncreaseIs100(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	values := rsiColumn(prices, 12)
	for i, v := range values {
		if i < 12 {
			if !math.IsNaN(v) {
				t.Errorf("expected null before period fills, index %d = %v", i, v)
			}
			continue
		}
		if v != 100.0 {
			t.Errorf("expected RSI 100 with zero losses, index %d = %v", i, v)
		}
	}
}

func TestRSIColumn_Midrange(t *testing.T) {
	// Alternating +2/-1 deltas: avg gain/avg loss is stable, RSI strictly
	// between 50 and 100.
	prices := []float64{10}
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			prices = append(prices, prices[len(prices)-1]+2)
		} else {
			prices = append(prices, prices[len(prices)-1]-1)
		}
	}
	values := rsiColumn(prices, 4)
	last := values[len(values)-1]
	if math.IsNaN(last) || last <= 50 || last >= 100 {
		t.Errorf("expected RSI in (50,100), got %v", last)
	}
}
