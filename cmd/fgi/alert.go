package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firedintern/meta-fgi/internal/alert"
	"github.com/firedintern/meta-fgi/internal/logger"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Run a single extreme-sentiment alert cycle",
	Long: `Fetch the current sentiment score and, if it sits in an extreme
bucket, notify every subscriber. This is the same cycle the cron endpoint
runs; useful for manual checks and one-off scheduling.`,
	RunE: runAlert,
}

func init() {
	rootCmd.AddCommand(alertCmd)
}

func runAlert(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	sentiment := buildSentimentProvider(cfg)
	store, err := buildSubscriberStore(cfg)
	if err != nil {
		return err
	}
	notifiers, err := buildNotifierRegistry(buildNotifier(cfg))
	if err != nil {
		return err
	}

	svc := alert.NewService(sentiment, store, notifiers, logger.Named(log, "alert"), cfg.Alerts.Dedup)
	result := svc.Run(context.Background())

	if result.Skipped {
		fmt.Printf("No alert sent: %s (score %d)\n", result.Reason, result.Score)
		return nil
	}
	fmt.Printf("Alert sent: %s at score %d, delivered %d/%d (failed %d)\n",
		result.Level, result.Score, result.Sent, result.Subscribers, result.Failed)

	return nil
}
