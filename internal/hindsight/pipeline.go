package hindsight

import (
	"context"
	"fmt"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/provider"
	"go.uber.org/zap"
)

// Pipeline wires the two upstream providers to the analysis stages. It is
// stateless across runs: each Run is a pure function of the fetched series
// and the run configuration.
type Pipeline struct {
	sentiment provider.SentimentProvider
	price     provider.SeriesProvider
	log       *zap.Logger
	now       func() time.Time
}

// NewPipeline creates a backtest pipeline.
func NewPipeline(sentiment provider.SentimentProvider, price provider.SeriesProvider, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		sentiment: sentiment,
		price:     price,
		log:       log,
		now:       time.Now,
	}
}

// Run fetches both series, aligns them, and walks the two analysis branches:
// forward returns -> bucket statistics -> insights, and windowed changes ->
// divergence detection -> outcome scoring. Fetch failures are fatal here:
// incomplete history would silently skew every statistic downstream.
func (p *Pipeline) Run(ctx context.Context, cfg RunConfig) (*Report, error) {
	merged, err := p.fetchMerged(ctx, cfg.HistoryDays, cfg.FetchDelay)
	if err != nil {
		return nil, err
	}
	if len(merged) == 0 {
		return nil, core.WrapError(core.ErrAlignmentEmpty,
			fmt.Errorf("no dates shared by %s and %s", p.sentiment.Name(), p.price.Name()))
	}

	p.log.Info("series merged",
		zap.Int("days", len(merged)),
		zap.String("start", merged[0].Date),
		zap.String("end", merged[len(merged)-1].Date))

	results := make(map[core.Regime]map[string]BucketStats)
	var longestHorizon int
	var longestStats map[core.Regime]BucketStats
	for _, horizon := range cfg.Horizons {
		returns := ForwardReturns(merged, horizon)
		stats := Aggregate(returns, horizon)
		for regime, bs := range stats {
			if results[regime] == nil {
				results[regime] = make(map[string]BucketStats, len(cfg.Horizons))
			}
			results[regime][HorizonKey(horizon)] = bs
		}
		if horizon > longestHorizon {
			longestHorizon = horizon
			longestStats = stats
		}
	}

	var divergence []WindowResult
	for _, window := range cfg.Windows {
		det := Detect(merged, window, cfg.Thresholds)
		outcomes := ScoreOutcomes(merged, det.Events, cfg.LookaheadDays)
		divergence = append(divergence, WindowResult{
			WindowDays:      window,
			Outcomes:        outcomes,
			EventCount:      len(det.Events),
			SkippedZeroBase: det.SkippedZeroBase,
		})
	}

	insights := GenerateInsights(longestStats, longestHorizon)

	return NewReport(cfg, merged, results, divergence, insights, p.now()), nil
}

// fetchMerged issues both upstream fetches, concurrently by default or
// sequentially with a pause when delay is set; alignment needs both, so the
// first failure aborts the run.
func (p *Pipeline) fetchMerged(ctx context.Context, historyDays int, delay time.Duration) ([]core.MergedRecord, error) {
	var (
		sentPoints  []core.LabeledPoint
		pricePoints []core.SeriesPoint
		sentErr     error
		priceErr    error
	)

	if delay > 0 {
		sentPoints, sentErr = p.sentiment.FetchLabeledSeries(ctx, historyDays)
		if sentErr == nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			pricePoints, priceErr = p.price.FetchSeries(ctx, historyDays)
		}
	} else {
		sentCh := make(chan error, 1)
		go func() {
			var err error
			sentPoints, err = p.sentiment.FetchLabeledSeries(ctx, historyDays)
			sentCh <- err
		}()
		pricePoints, priceErr = p.price.FetchSeries(ctx, historyDays)
		sentErr = <-sentCh
	}

	if sentErr != nil {
		return nil, fmt.Errorf("fetching sentiment history: %w", sentErr)
	}
	if priceErr != nil {
		return nil, fmt.Errorf("fetching price history: %w", priceErr)
	}

	p.log.Info("series fetched",
		zap.Int("sentiment_points", len(sentPoints)),
		zap.Int("price_points", len(pricePoints)))

	return Merge(sentPoints, pricePoints), nil
}
