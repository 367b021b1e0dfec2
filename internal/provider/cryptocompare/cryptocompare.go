package cryptocompare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
)

const (
	baseURL = "https://min-api.cryptocompare.com"

	// maxLimit is the free-tier daily-history cap.
	maxLimit = 2000
)

// Client fetches daily Bitcoin closes from the CryptoCompare histoday
// endpoint, whose payload shape is {Data: {Data: [{time, close}, ...]}},
// oldest first. It supports much deeper history than CoinGecko's free tier.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new CryptoCompare client.
func New(apiKey string) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a CryptoCompare client with a custom base URL (for testing).
func NewWithBaseURL(apiKey, url string) *Client {
	c := New(apiKey)
	c.baseURL = url
	return c
}

func (c *Client) Name() string {
	return "cryptocompare"
}

type histodayResponse struct {
	Response string `json:"Response"`
	Data     *struct {
		Data []struct {
			Time  int64   `json:"time"`
			Close float64 `json:"close"`
		} `json:"Data"`
	} `json:"Data"`
}

// FetchSeries returns up to limit daily BTC/USD closes, oldest first.
func (c *Client) FetchSeries(ctx context.Context, limit int) ([]core.SeriesPoint, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	url := fmt.Sprintf("%s/data/v2/histoday?fsym=BTC&tsym=USD&limit=%d", c.baseURL, limit)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Apikey "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("cryptocompare returned status %d", resp.StatusCode))
	}

	var payload histodayResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	if payload.Data == nil || payload.Data.Data == nil {
		return nil, core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("cryptocompare payload missing Data.Data array"))
	}

	points := make([]core.SeriesPoint, 0, len(payload.Data.Data))
	for _, item := range payload.Data.Data {
		points = append(points, core.SeriesPoint{
			Date:      core.DateOf(item.Time),
			Timestamp: item.Time,
			Value:     item.Close,
		})
	}

	return points, nil
}
