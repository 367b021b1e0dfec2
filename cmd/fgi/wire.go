package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/firedintern/meta-fgi/internal/config"
	"github.com/firedintern/meta-fgi/internal/notifier"
	"github.com/firedintern/meta-fgi/internal/notifier/telegram"
	"github.com/firedintern/meta-fgi/internal/provider"
	"github.com/firedintern/meta-fgi/internal/provider/alternativeme"
	"github.com/firedintern/meta-fgi/internal/provider/coingecko"
	"github.com/firedintern/meta-fgi/internal/provider/cryptocompare"
	"github.com/firedintern/meta-fgi/internal/subscriber"
)

// loadConfig reads the config file (or defaults) and validates it.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func buildSentimentProvider(cfg *config.Config) provider.SentimentProvider {
	if url := cfg.Providers.Sentiment.BaseURL; url != "" {
		return alternativeme.NewWithBaseURL(url)
	}
	return alternativeme.New()
}

func buildPriceProvider(cfg *config.Config) (provider.SeriesProvider, error) {
	p := cfg.Providers.Price
	switch p.Name {
	case "coingecko":
		if p.BaseURL != "" {
			return coingecko.NewWithBaseURL(p.APIKey, p.BaseURL), nil
		}
		return coingecko.New(p.APIKey), nil
	case "", "cryptocompare":
		if p.BaseURL != "" {
			return cryptocompare.NewWithBaseURL(p.APIKey, p.BaseURL), nil
		}
		return cryptocompare.New(p.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown price provider: %s", p.Name)
	}
}

func buildSubscriberStore(cfg *config.Config) (subscriber.Store, error) {
	switch cfg.Subscribers.Store {
	case "", "memory":
		return subscriber.NewMemoryStore(), nil
	case "rest":
		return subscriber.NewRESTStore(cfg.Subscribers.URL, cfg.Subscribers.Token), nil
	default:
		return nil, fmt.Errorf("unknown subscriber store: %s", cfg.Subscribers.Store)
	}
}

func buildNotifier(cfg *config.Config) notifier.Notifier {
	return telegram.New(cfg.Telegram.BotToken)
}

// buildNotifierRegistry collects every configured alert channel. Telegram
// is the only one today; additional channels register here.
func buildNotifierRegistry(notifiers ...notifier.Notifier) (*notifier.Registry, error) {
	reg := notifier.NewRegistry()
	for _, n := range notifiers {
		if err := reg.Register(n); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
