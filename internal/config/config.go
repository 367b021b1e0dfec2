package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Providers   ProvidersConfig   `mapstructure:"providers"`
	Backtest    BacktestConfig    `mapstructure:"backtest"`
	Subscribers SubscribersConfig `mapstructure:"subscribers"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Alerts      AlertsConfig      `mapstructure:"alerts"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Archive     ArchiveConfig     `mapstructure:"archive"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	AdminSecret string `mapstructure:"admin_secret"`
	CronSecret  string `mapstructure:"cron_secret"`
}

// ProvidersConfig selects and configures the upstream series providers.
type ProvidersConfig struct {
	Sentiment SentimentProviderConfig `mapstructure:"sentiment"`
	Price     PriceProviderConfig     `mapstructure:"price"`
	// DelayBetweenCalls is a rate-limit courtesy between sequential
	// upstream calls; it is not a correctness requirement.
	DelayBetweenCalls time.Duration `mapstructure:"delay_between_calls"`
}

type SentimentProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type PriceProviderConfig struct {
	// Name is "coingecko" (daily, <=365 days) or "cryptocompare"
	// (daily, up to 2000 days).
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type BacktestConfig struct {
	HistoryDays int   `mapstructure:"history_days"`
	Horizons    []int `mapstructure:"horizons"`

	Divergence DivergenceConfig `mapstructure:"divergence"`
}

type DivergenceConfig struct {
	WindowDays        []int   `mapstructure:"window_days"`
	PriceThresholdPct float64 `mapstructure:"price_threshold_pct"`
	FGIThresholdPct   float64 `mapstructure:"fgi_threshold_pct"`
	LookaheadDays     int     `mapstructure:"lookahead_days"`
}

type SubscribersConfig struct {
	// Store is "rest" (KV REST interface) or "memory".
	Store string `mapstructure:"store"`
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
}

type AlertsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Dedup skips re-sending when the same extreme level was already
	// alerted on the same UTC date.
	Dedup bool `mapstructure:"dedup"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Providers: ProvidersConfig{
			Price: PriceProviderConfig{
				Name: "cryptocompare",
			},
			DelayBetweenCalls: time.Second,
		},
		Backtest: BacktestConfig{
			HistoryDays: 2000,
			Horizons:    []int{7, 14, 30},
			Divergence: DivergenceConfig{
				WindowDays:        []int{3, 7, 14},
				PriceThresholdPct: 5,
				FGIThresholdPct:   10,
				LookaheadDays:     7,
			},
		},
		Subscribers: SubscribersConfig{
			Store: "memory",
		},
		Alerts: AlertsConfig{
			Enabled: true,
			Dedup:   true,
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "reports",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Providers.Price.Name {
	case "", "coingecko", "cryptocompare":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown price provider: %s", c.Providers.Price.Name))
	}

	if c.Backtest.HistoryDays < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("history_days must be positive, got %d", c.Backtest.HistoryDays))
	}
	for _, h := range c.Backtest.Horizons {
		if h < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("horizons must be positive, got %d", h))
		}
	}
	if d := c.Backtest.Divergence; d.PriceThresholdPct < 0 || d.FGIThresholdPct < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("divergence thresholds cannot be negative"))
	}

	if c.Subscribers.Store == "rest" {
		if c.Subscribers.URL == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("subscribers.url required when store is rest"))
		}
		if c.Subscribers.Token == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("subscribers.token required when store is rest"))
		}
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown LLM provider: %s", c.LLM.Provider))
		}
	}

	return nil
}
