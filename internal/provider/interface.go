package provider

import (
	"context"

	"github.com/firedintern/meta-fgi/internal/core"
)

// SeriesProvider fetches a bounded-length daily historical series from one
// upstream API. Implementations normalize their payload shape to
// core.SeriesPoint and always return oldest first. One adapter exists per
// payload shape; adding a provider means adding an adapter, never branching
// on response shape inside a caller.
type SeriesProvider interface {
	// Name returns the unique identifier for this provider.
	Name() string

	// FetchSeries returns up to limit daily points, oldest first.
	// A non-success upstream status or a payload missing the expected
	// field yields core.ErrFetchFailed.
	FetchSeries(ctx context.Context, limit int) ([]core.SeriesPoint, error)
}

// SentimentProvider extends SeriesProvider for the sentiment index, whose
// points carry a classification label and whose latest value drives the
// live alert and read-API paths.
type SentimentProvider interface {
	SeriesProvider

	// FetchLabeledSeries returns up to limit daily points with the
	// provider's classification labels, oldest first.
	FetchLabeledSeries(ctx context.Context, limit int) ([]core.LabeledPoint, error)

	// FetchLatest returns the most recent score and its classification.
	FetchLatest(ctx context.Context) (int, string, error)
}
