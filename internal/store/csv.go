package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

// Series CSV layout: timestamp,price,market_cap,volume followed by one
// column per indicator. Null indicator cells are empty fields.

var baseHeader = []string{"timestamp", "price", "market_cap", "volume"}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func encodeSeries(series *model.Series) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{}, baseHeader...)
	for _, c := range series.Indicators {
		header = append(header, c.Name)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, len(header))
	for i, row := range series.Rows {
		record[0] = strconv.FormatInt(row.Timestamp, 10)
		record[1] = formatFloat(row.Price)
		record[2] = formatFloat(row.MarketCap)
		record[3] = formatFloat(row.Volume)
		for j, c := range series.Indicators {
			record[4+j] = formatFloat(c.Values[i])
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func decodeSeries(data []byte) (*model.Series, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty series file")
	}
	header := records[0]
	if len(header) < len(baseHeader) {
		return nil, fmt.Errorf("series header has %d columns, want at least %d", len(header), len(baseHeader))
	}

	series := &model.Series{}
	for _, name := range header[len(baseHeader):] {
		series.Indicators = append(series.Indicators, model.IndicatorColumn{Name: name})
	}

	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row has %d fields, want %d", len(rec), len(header))
		}
		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", rec[0], err)
		}
		price, err := parseFloat(rec[1])
		if err != nil {
			return nil, err
		}
		mcap, err := parseFloat(rec[2])
		if err != nil {
			return nil, err
		}
		vol, err := parseFloat(rec[3])
		if err != nil {
			return nil, err
		}
		series.Rows = append(series.Rows, model.Row{Timestamp: ts, Price: price, MarketCap: mcap, Volume: vol})
		for j := range series.Indicators {
			v, err := parseFloat(rec[len(baseHeader)+j])
			if err != nil {
				return nil, err
			}
			series.Indicators[j].Values = append(series.Indicators[j].Values, v)
		}
	}
	return series, nil
}

// Forecast CSV layout: step,forecast,order. The fitted order repeats on
// every row so the artifact stays self-describing.

func encodeForecast(f *model.Forecast) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"step", "forecast", "order"}); err != nil {
		return nil, err
	}
	order := f.Order.String()
	for _, s := range f.Steps {
		rec := []string{strconv.Itoa(s.Step), formatFloat(s.Price), order}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func decodeForecast(data []byte) (*model.Forecast, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("forecast file has no rows")
	}
	f := &model.Forecast{}
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return nil, fmt.Errorf("forecast row has %d fields, want 3", len(rec))
		}
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("parse step %q: %w", rec[0], err)
		}
		// Steps run 1..n with no gaps.
		if step != i+1 {
			return nil, fmt.Errorf("forecast step %d out of sequence, want %d", step, i+1)
		}
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse forecast %q: %w", rec[1], err)
		}
		if rec[2] != records[1][2] {
			return nil, fmt.Errorf("forecast order changes mid-file: %q vs %q", rec[2], records[1][2])
		}
		f.Steps = append(f.Steps, model.ForecastStep{Step: step, Price: price})
	}
	if _, err := fmt.Sscanf(records[1][2], "ARIMA(%d,%d,%d)", &f.Order.P, &f.Order.D, &f.Order.Q); err != nil {
		return nil, fmt.Errorf("parse order %q: %w", records[1][2], err)
	}
	return f, nil
}
