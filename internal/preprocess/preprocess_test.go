package preprocess

import (
	"errors"
	"reflect"
	"testing"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

func chartOf(records ...[3]float64) *model.RawChart {
	chart := &model.RawChart{}
	for _, r := range records {
		ts := r[0]
		chart.Prices = append(chart.Prices, [2]float64{ts, r[1]})
		chart.MarketCaps = append(chart.MarketCaps, [2]float64{ts, r[1] * 1000})
		chart.TotalVolumes = append(chart.TotalVolumes, [2]float64{ts, r[2]})
	}
	return chart
}

func TestProcess_SortsByTimestamp(t *testing.T) {
	chart := chartOf(
		[3]float64{3000, 30, 3},
		[3]float64{1000, 10, 1},
		[3]float64{2000, 20, 2},
	)
	series, err := Process(chart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(series.Rows))
	}
	for i := 1; i < len(series.Rows); i++ {
		if series.Rows[i].Timestamp <= series.Rows[i-1].Timestamp {
			t.Errorf("timestamps not strictly increasing at row %d", i)
		}
	}
	if series.Rows[0].Price != 10 || series.Rows[2].Price != 30 {
		t.Errorf("rows not reordered with timestamps: %+v", series.Rows)
	}
}

func TestProcess_DropsDuplicatesKeepingFirst(t *testing.T) {
	chart := chartOf(
		[3]float64{1000, 10, 1},
		[3]float64{2000, 20, 2},
		[3]float64{2000, 99, 9}, // duplicate timestamp, later occurrence
		[3]float64{3000, 30, 3},
	)
	series, err := Process(chart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Rows) != 3 {
		t.Fatalf("expected 3 rows after dedup, got %d", len(series.Rows))
	}
	if series.Rows[1].Price != 20 {
		t.Errorf("expected first occurrence to win, got price %v", series.Rows[1].Price)
	}
}

func TestProcess_LengthMismatch(t *testing.T) {
	chart := chartOf([3]float64{1000, 10, 1}, [3]float64{2000, 20, 2})
	chart.MarketCaps = chart.MarketCaps[:1]

	_, err := Process(chart)
	var malformed *model.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
}

func TestProcess_EmptyChart(t *testing.T) {
	_, err := Process(&model.RawChart{})
	var malformed *model.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	build := func() *model.RawChart {
		return chartOf(
			[3]float64{2000, 20, 2},
			[3]float64{1000, 10, 1},
			[3]float64{1000, 99, 9},
			[3]float64{3000, 30, 3},
		)
	}
	first, err := Process(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Process(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("processing the same chart twice produced different series")
	}
}
