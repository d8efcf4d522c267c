package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

// Collection names the four stage hand-off areas plus the analysis output.
type Collection string

const (
	Raw        Collection = "raw"
	Processed  Collection = "processed"
	Engineered Collection = "engineered"
	Forecast   Collection = "forecast"
	Analysis   Collection = "analysis"
)

// ext returns the artifact file extension for a collection. Raw charts and
// analysis summaries are JSON; the tabular stages are CSV.
func (c Collection) ext() string {
	switch c {
	case Raw, Analysis:
		return ".json"
	default:
		return ".csv"
	}
}

// Store is a filesystem-backed artifact store. Each collection is one
// directory holding one file per key. Writers publish atomically: content is
// staged to a .tmp sibling and renamed into place, so a partially written
// artifact is never visible to readers.
type Store struct {
	dir string
}

// Open creates (if needed) the data directory and all collection
// subdirectories.
func Open(dir string) (*Store, error) {
	for _, c := range []Collection{Raw, Processed, Engineered, Forecast, Analysis} {
		if err := os.MkdirAll(filepath.Join(dir, string(c)), 0755); err != nil {
			return nil, fmt.Errorf("create collection %s: %w", c, err)
		}
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(c Collection, key model.Key) string {
	return filepath.Join(s.dir, string(c), key.Name()+c.ext())
}

// List returns the keys present in a collection, sorted by name.
func (s *Store) List(c Collection) ([]model.Key, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, string(c)))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, err)
	}
	var keys []model.Key
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), c.ext()) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), c.ext())
		key, err := model.ParseKey(name)
		if err != nil {
			continue // foreign file, not an artifact
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name() < keys[j].Name() })
	return keys, nil
}

// Diff returns the keys present in `from` but absent in `to`: the units the
// next stage has not consumed yet.
func (s *Store) Diff(from, to Collection) ([]model.Key, error) {
	fromKeys, err := s.List(from)
	if err != nil {
		return nil, err
	}
	toKeys, err := s.List(to)
	if err != nil {
		return nil, err
	}
	done := make(map[model.Key]bool, len(toKeys))
	for _, k := range toKeys {
		done[k] = true
	}
	var pending []model.Key
	for _, k := range fromKeys {
		if !done[k] {
			pending = append(pending, k)
		}
	}
	return pending, nil
}

// Has reports whether an artifact exists.
func (s *Store) Has(c Collection, key model.Key) bool {
	_, err := os.Stat(s.path(c, key))
	return err == nil
}

// write stages to a temp sibling and renames into place.
func (s *Store) write(c Collection, key model.Key, data []byte) error {
	path := s.path(c, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("stage %s/%s: %w", c, key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish %s/%s: %w", c, key, err)
	}
	return nil
}

// WriteRaw stores a raw market chart.
func (s *Store) WriteRaw(key model.Key, chart *model.RawChart) error {
	data, err := json.MarshalIndent(chart, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal raw %s: %w", key, err)
	}
	return s.write(Raw, key, data)
}

// ReadRaw loads a raw market chart.
func (s *Store) ReadRaw(key model.Key) (*model.RawChart, error) {
	data, err := os.ReadFile(s.path(Raw, key))
	if err != nil {
		return nil, fmt.Errorf("read raw %s: %w", key, err)
	}
	var chart model.RawChart
	if err := json.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("decode raw %s: %w", key, err)
	}
	return &chart, nil
}

// WriteSeries stores a processed or engineered series as CSV.
func (s *Store) WriteSeries(c Collection, key model.Key, series *model.Series) error {
	data, err := encodeSeries(series)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", c, key, err)
	}
	return s.write(c, key, data)
}

// ReadSeries loads a processed or engineered series.
func (s *Store) ReadSeries(c Collection, key model.Key) (*model.Series, error) {
	data, err := os.ReadFile(s.path(c, key))
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", c, key, err)
	}
	series, err := decodeSeries(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", c, key, err)
	}
	return series, nil
}

// WriteForecast stores a forecast horizon as CSV.
func (s *Store) WriteForecast(key model.Key, f *model.Forecast) error {
	data, err := encodeForecast(f)
	if err != nil {
		return fmt.Errorf("encode forecast %s: %w", key, err)
	}
	return s.write(Forecast, key, data)
}

// ReadForecast loads a forecast horizon.
func (s *Store) ReadForecast(key model.Key) (*model.Forecast, error) {
	data, err := os.ReadFile(s.path(Forecast, key))
	if err != nil {
		return nil, fmt.Errorf("read forecast %s: %w", key, err)
	}
	f, err := decodeForecast(data)
	if err != nil {
		return nil, fmt.Errorf("decode forecast %s: %w", key, err)
	}
	return f, nil
}

// WriteAnalysis stores the flat analysis summary as JSON.
func (s *Store) WriteAnalysis(key model.Key, a *model.Analysis) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis %s: %w", key, err)
	}
	return s.write(Analysis, key, data)
}

// ReadAnalysis loads the analysis summary.
func (s *Store) ReadAnalysis(key model.Key) (*model.Analysis, error) {
	data, err := os.ReadFile(s.path(Analysis, key))
	if err != nil {
		return nil, fmt.Errorf("read analysis %s: %w", key, err)
	}
	var a model.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode analysis %s: %w", key, err)
	}
	return &a, nil
}
