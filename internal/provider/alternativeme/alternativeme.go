package alternativeme

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
)

const baseURL = "https://api.alternative.me"

// Client fetches the Fear & Greed Index from alternative.me.
// The upstream returns values newest first; the client reverses them.
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates a new alternative.me client.
func New() *Client {
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewWithBaseURL creates a client with a custom base URL (for testing).
func NewWithBaseURL(url string) *Client {
	c := New()
	c.baseURL = url
	return c
}

func (c *Client) Name() string {
	return "alternativeme"
}

// fngResponse mirrors the /fng/ payload. Numeric fields arrive as strings.
type fngResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
		Timestamp           string `json:"timestamp"`
	} `json:"data"`
}

func (c *Client) fetch(ctx context.Context, limit int) (*fngResponse, error) {
	url := fmt.Sprintf("%s/fng/?limit=%d&format=json", c.baseURL, limit)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("fgi api returned status %d", resp.StatusCode))
	}

	var payload fngResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, core.WrapError(core.ErrFetchFailed, err)
	}
	if payload.Data == nil {
		return nil, core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("fgi payload missing data array"))
	}

	return &payload, nil
}

// FetchLabeledSeries returns up to limit daily FGI points with their
// classification labels, oldest first.
func (c *Client) FetchLabeledSeries(ctx context.Context, limit int) ([]core.LabeledPoint, error) {
	payload, err := c.fetch(ctx, limit)
	if err != nil {
		return nil, err
	}

	// Upstream is newest first; walk backwards to emit oldest first.
	points := make([]core.LabeledPoint, 0, len(payload.Data))
	for i := len(payload.Data) - 1; i >= 0; i-- {
		item := payload.Data[i]

		ts, err := strconv.ParseInt(item.Timestamp, 10, 64)
		if err != nil {
			continue
		}
		value, err := strconv.Atoi(item.Value)
		if err != nil {
			continue
		}

		points = append(points, core.LabeledPoint{
			SeriesPoint: core.SeriesPoint{
				Date:      core.DateOf(ts),
				Timestamp: ts,
				Value:     float64(value),
			},
			Label: item.ValueClassification,
		})
	}

	return points, nil
}

// FetchSeries returns up to limit daily FGI points, oldest first.
func (c *Client) FetchSeries(ctx context.Context, limit int) ([]core.SeriesPoint, error) {
	labeled, err := c.FetchLabeledSeries(ctx, limit)
	if err != nil {
		return nil, err
	}

	points := make([]core.SeriesPoint, len(labeled))
	for i, p := range labeled {
		points[i] = p.SeriesPoint
	}
	return points, nil
}

// FetchLatest returns the current score and classification.
func (c *Client) FetchLatest(ctx context.Context) (int, string, error) {
	payload, err := c.fetch(ctx, 1)
	if err != nil {
		return 0, "", err
	}
	if len(payload.Data) == 0 {
		return 0, "", core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("fgi payload has no entries"))
	}

	item := payload.Data[0]
	score, err := strconv.Atoi(item.Value)
	if err != nil {
		return 0, "", core.WrapError(core.ErrFetchFailed,
			fmt.Errorf("non-numeric fgi value %q", item.Value))
	}

	return score, item.ValueClassification, nil
}
