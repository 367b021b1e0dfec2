package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
)

const (
	baseURL = "https://api.coingecko.com/api/v3"

	// maxDays is CoinGecko's free-tier daily history limit.
	maxDays = 365
)

// Client fetches daily Bitcoin prices from the CoinGecko market_chart
// endpoint, whose payload shape is {prices: [[epochMs, price], ...]},
// oldest first.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new CoinGecko client.
func New(apiKey string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a CoinGecko client with a custom base URL (for testing).
func NewWithBaseURL(apiKey, url string) *Client {
	c := New(apiKey)
	c.baseURL = url
	return c
}

func (c *Client) Name() string {
	return "coingecko"
}

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// FetchSeries returns up to limit daily BTC/USD prices, oldest first.
// Limits beyond the free-tier cap are clamped to 365 days.
func (c *Client) FetchSeries(ctx context.Context, limit int) ([]core.SeriesPoint, error) {
	days := limit
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}

	url := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=usd&days=%d&interval=daily",
		c.baseURL, days)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("coingecko returned status %d", resp.StatusCode))
	}

	var payload marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	if payload.Prices == nil {
		return nil, core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("coingecko payload missing prices array"))
	}

	points := make([]core.SeriesPoint, 0, len(payload.Prices))
	for _, pair := range payload.Prices {
		if len(pair) < 2 {
			continue
		}
		ts := int64(pair[0]) / 1000 // epoch ms -> s
		points = append(points, core.SeriesPoint{
			Date:      core.DateOf(ts),
			Timestamp: ts,
			Value:     pair[1],
		})
	}

	return points, nil
}
