package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/hindsight"
	"github.com/firedintern/meta-fgi/internal/llm/factory"
	"github.com/firedintern/meta-fgi/internal/logger"
	"github.com/firedintern/meta-fgi/internal/narrative"
	"github.com/firedintern/meta-fgi/internal/storage/archive"
)

var (
	backtestDays    int
	backtestNoSave  bool
	backtestSummary bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest sentiment against forward Bitcoin returns",
	Long: `Fetch the full sentiment and price history, align them by calendar
date, and measure what buying at each sentiment level would have returned.
The resulting report is archived as a JSON artifact.`,
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().IntVar(&backtestDays, "days", 0, "history depth in days (default from config)")
	backtestCmd.Flags().BoolVar(&backtestNoSave, "no-save", false, "print results without archiving the report")
	backtestCmd.Flags().BoolVar(&backtestSummary, "summary", false, "generate an LLM narrative summary (needs llm.provider)")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	sentiment := buildSentimentProvider(cfg)
	price, err := buildPriceProvider(cfg)
	if err != nil {
		return err
	}

	days := cfg.Backtest.HistoryDays
	if backtestDays > 0 {
		days = backtestDays
	}

	runCfg := hindsight.RunConfig{
		HistoryDays: days,
		Horizons:    cfg.Backtest.Horizons,
		Windows:     cfg.Backtest.Divergence.WindowDays,
		Thresholds: hindsight.Thresholds{
			PricePct:     cfg.Backtest.Divergence.PriceThresholdPct,
			SentimentPct: cfg.Backtest.Divergence.FGIThresholdPct,
		},
		LookaheadDays: cfg.Backtest.Divergence.LookaheadDays,
		FetchDelay:    cfg.Providers.DelayBetweenCalls,
	}

	pipeline := hindsight.NewPipeline(sentiment, price, logger.Named(log, "hindsight"))

	started := time.Now()
	ctx := context.Background()
	report, err := pipeline.Run(ctx, runCfg)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}
	log.Info("backtest complete", zap.Duration("elapsed", time.Since(started)))

	if backtestSummary && cfg.LLM.Provider != "" {
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			return err
		}
		summarizer := narrative.NewSummarizer(provider, logger.Named(log, "narrative"))
		summary, err := summarizer.Summarize(ctx, report)
		if err != nil {
			// The deterministic insights stand on their own.
			log.Warn("narrative generation failed", zap.Error(err))
		} else {
			report.Narrative = summary
		}
	}

	printReport(report)

	if backtestNoSave {
		return nil
	}

	store, err := archive.New(cfg.Archive)
	if err != nil {
		return err
	}
	path, err := store.SaveReport(ctx, report)
	if err != nil {
		return fmt.Errorf("archiving report: %w", err)
	}
	fmt.Printf("\nReport saved to %s\n", path)

	return nil
}

func printReport(report *hindsight.Report) {
	dr := report.Metadata.DataRange
	fmt.Println("=== FGI Hindsight Backtest ===")
	fmt.Printf("Period: %s to %s (%d days)\n\n", dr.Start, dr.End, dr.TotalDays)

	for _, regime := range core.RegimeOrder {
		horizons, ok := report.Results[regime]
		if !ok {
			continue
		}
		r := core.RegimeRanges[regime]
		fmt.Printf("%s (%d-%d)\n", regime, r.Min, r.Max)
		for _, horizon := range report.Metadata.Config.Horizons {
			bs, ok := horizons[hindsight.HorizonKey(horizon)]
			if !ok {
				continue
			}
			if bs.SampleSize == 0 {
				fmt.Printf("  %3d-day: no data\n", horizon)
				continue
			}
			fmt.Printf("  %3d-day: avg %+7.2f%%  median %+7.2f%%  win %5.1f%%  n=%d\n",
				horizon, bs.AvgReturn, bs.MedianReturn, bs.WinRatePct, bs.SampleSize)
		}
	}

	if len(report.Divergence) > 0 {
		fmt.Println("\nDivergence events:")
		for _, wr := range report.Divergence {
			fmt.Printf("  %2d-day window: %d events\n", wr.WindowDays, wr.EventCount)
			for divType, outcome := range wr.Outcomes {
				fmt.Printf("    %s: %d scored, %.1f%% predictive, avg %+.2f%%\n",
					divType, outcome.Count, outcome.SuccessRatePct, outcome.AvgReturnPct)
			}
		}
	}

	if len(report.Insights) > 0 {
		fmt.Println("\nInsights:")
		for _, insight := range report.Insights {
			fmt.Printf("  - %s\n", insight)
		}
	}

	if report.Narrative != "" {
		fmt.Println("\nNarrative:")
		fmt.Println(report.Narrative)
	}
}
