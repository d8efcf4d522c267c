// Package server exposes the analysis results to the dashboard.
package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
	"github.com/uzairmukadam/Trend-Sage/internal/store"
)

// Server serves the query-by-name listing and fetch-by-name endpoints.
type Server struct {
	store  *store.Store
	engine *gin.Engine
}

// New builds the router.
func New(st *store.Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{store: st, engine: engine}
	api := engine.Group("/api")
	api.GET("/datasets", s.listDatasets)
	api.GET("/datasets/:name", s.getDataset)
	return s
}

// Handler returns the HTTP handler for mounting.
func (s *Server) Handler() http.Handler { return s.engine }

// available returns the keys present in both the engineered and analysis
// collections; only complete pairs are renderable.
func (s *Server) available() ([]model.Key, error) {
	engineered, err := s.store.List(store.Engineered)
	if err != nil {
		return nil, err
	}
	var keys []model.Key
	for _, k := range engineered {
		if s.store.Has(store.Analysis, k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *Server) listDatasets(c *gin.Context) {
	keys, err := s.available()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name())
	}
	c.JSON(http.StatusOK, gin.H{"datasets": names})
}

func (s *Server) getDataset(c *gin.Context) {
	key, err := model.ParseKey(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
		return
	}
	if !s.store.Has(store.Engineered, key) || !s.store.Has(store.Analysis, key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
		return
	}

	series, err := s.store.ReadSeries(store.Engineered, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	analysis, err := s.store.ReadAnalysis(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chart":    chartRecords(series),
		"analysis": analysis,
	})
}

// chartRecords flattens a series into JSON-friendly records. NaN indicator
// cells become JSON null; timestamps stay strings to survive JS number
// precision.
func chartRecords(series *model.Series) []map[string]any {
	records := make([]map[string]any, 0, len(series.Rows))
	for i, row := range series.Rows {
		rec := map[string]any{
			"timestamp":  strconv.FormatInt(row.Timestamp, 10),
			"price":      row.Price,
			"market_cap": row.MarketCap,
			"volume":     row.Volume,
		}
		for _, col := range series.Indicators {
			if math.IsNaN(col.Values[i]) {
				rec[col.Name] = nil
			} else {
				rec[col.Name] = col.Values[i]
			}
		}
		records = append(records, rec)
	}
	return records
}
