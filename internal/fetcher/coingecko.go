package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uzairmukadam/Trend-Sage/internal/model"
)

// GeckoFetcher implements Fetcher against the CoinGecko market-chart API.
type GeckoFetcher struct {
	BaseURL    string
	APIKey     string
	VsCurrency string
	Client     *http.Client
}

// NewGeckoFetcher creates a CoinGecko fetcher with optional proxy support.
func NewGeckoFetcher(baseURL, apiKey, proxyURL string) *GeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return &GeckoFetcher{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     apiKey,
		VsCurrency: "usd",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *GeckoFetcher) Name() string { return "coingecko" }

// days maps a timeframe tag to the API's days parameter. CoinGecko picks
// the granularity from the range: 90 days comes back hourly, 365 daily.
func days(tf model.Timeframe) string {
	return strings.TrimSuffix(string(tf), "days")
}

// FetchMarketChart retrieves prices, market caps and total volumes for one
// asset over the timeframe's range.
func (f *GeckoFetcher) FetchMarketChart(ctx context.Context, assetID string, tf model.Timeframe) (*model.RawChart, error) {
	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=%s&days=%s",
		f.BaseURL, url.PathEscape(assetID), url.QueryEscape(f.VsCurrency), url.QueryEscape(days(tf)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coingecko read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart model.RawChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("coingecko decode: %w", err)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("coingecko: no data returned for %s", assetID)
	}
	return &chart, nil
}
