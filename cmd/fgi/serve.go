package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/firedintern/meta-fgi/internal/alert"
	"github.com/firedintern/meta-fgi/internal/api"
	"github.com/firedintern/meta-fgi/internal/bot"
	"github.com/firedintern/meta-fgi/internal/logger"
	"github.com/firedintern/meta-fgi/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FGI server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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
	notify := buildNotifier(cfg)
	notifiers, err := buildNotifierRegistry(notify)
	if err != nil {
		return err
	}

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.NewRegistry()
	}

	server := api.NewServer(
		api.Config{
			Host:        cfg.Server.Host,
			Port:        cfg.Server.Port,
			AdminSecret: cfg.Server.AdminSecret,
			CronSecret:  cfg.Server.CronSecret,
			CacheTTL:    cfg.Cache.TTL,
		},
		api.Deps{
			Sentiment:  sentiment,
			Store:      store,
			Dispatcher: bot.NewDispatcher(store, sentiment, notify, logger.Named(log, "bot")),
			Alerts:     alert.NewService(sentiment, store, notifiers, logger.Named(log, "alert"), cfg.Alerts.Dedup),
			Metrics:    registry,
		},
		log,
	)

	log.Info("starting FGI server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down FGI server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
