package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      LoggingConfig  `yaml:"log"`
	REST     RESTConfig     `yaml:"rest"`
	Exchange ExchangeConfig `yaml:"exchange"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Symbols  []SymbolConfig `yaml:"symbols"`
	Chart    ChartConfig    `yaml:"chart"`
	Telegram TelegramConfig `yaml:"telegram"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type RESTConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	ProxyURL string        `yaml:"proxy_url"`
}

type ExchangeConfig struct {
	ProductType     string `yaml:"product_type"`
	FetchCurrencies bool   `yaml:"fetch_currencies"`
}

type FetchConfig struct {
	Timeframe  string        `yaml:"timeframe"`
	Limit      int           `yaml:"limit"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// SymbolConfig maps a short alias to the exchange-recognized instrument id.
type SymbolConfig struct {
	Alias string `yaml:"alias"`
	ID    string `yaml:"id"`
}

type ChartConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Output  string `yaml:"output"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

func (c ChartConfig) EnabledValue() bool {
	return c.Enabled == nil || *c.Enabled
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  string `yaml:"chat_id"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Path    string `yaml:"path"`
}

// Timeframes the exchange's candle endpoint recognizes.
var validTimeframes = map[string]struct{}{
	"1m": {}, "3m": {}, "5m": {}, "15m": {}, "30m": {},
	"1h": {}, "4h": {}, "6h": {}, "12h": {},
	"1d": {}, "1w": {},
}

func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, validate(cfg)
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.REST.BaseURL == "" {
		cfg.REST.BaseURL = "https://api.bitget.com"
	}
	if cfg.REST.Timeout == 0 {
		cfg.REST.Timeout = 30 * time.Second
	}
	if cfg.Exchange.ProductType == "" {
		cfg.Exchange.ProductType = "USDT-FUTURES"
	}
	if cfg.Fetch.Timeframe == "" {
		cfg.Fetch.Timeframe = "1h"
	}
	if cfg.Fetch.Limit == 0 {
		cfg.Fetch.Limit = 500
	}
	if cfg.Fetch.Retries == 0 {
		cfg.Fetch.Retries = 3
	}
	if cfg.Fetch.RetryDelay == 0 {
		cfg.Fetch.RetryDelay = 2 * time.Second
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []SymbolConfig{
			{Alias: "XAU", ID: "XAUUSDT"},
			{Alias: "XAUT", ID: "XAUTUSDT"},
			{Alias: "PAXG", ID: "PAXGUSDT"},
		}
	}
	if cfg.Chart.Output == "" {
		cfg.Chart.Output = "gold_spreads.png"
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1400
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 800
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = "127.0.0.1:9102"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func applyEnvOverrides(cfg *Config) {
	if proxy, ok := os.LookupEnv("BITGET_PROXY"); ok {
		cfg.REST.ProxyURL = strings.TrimSpace(proxy)
	}
	if token := strings.TrimSpace(os.Getenv("GOLDSPREAD_TELEGRAM_TOKEN")); token != "" {
		cfg.Telegram.Token = token
	}
	if chatID := strings.TrimSpace(os.Getenv("GOLDSPREAD_TELEGRAM_CHAT_ID")); chatID != "" {
		cfg.Telegram.ChatID = chatID
	}
}

// ValidTimeframe reports whether the candle endpoint accepts the timeframe.
func ValidTimeframe(tf string) bool {
	_, ok := validTimeframes[tf]
	return ok
}

func validate(cfg *Config) error {
	if cfg.REST.Timeout <= 0 {
		return errors.New("rest.timeout must be > 0")
	}
	if cfg.REST.ProxyURL != "" {
		if _, err := url.Parse(cfg.REST.ProxyURL); err != nil {
			return fmt.Errorf("rest.proxy_url is invalid: %w", err)
		}
	}
	if !ValidTimeframe(cfg.Fetch.Timeframe) {
		return fmt.Errorf("fetch.timeframe %q is not supported", cfg.Fetch.Timeframe)
	}
	if cfg.Fetch.Limit <= 0 {
		return errors.New("fetch.limit must be > 0")
	}
	if cfg.Fetch.Retries <= 0 {
		return errors.New("fetch.retries must be > 0")
	}
	if cfg.Fetch.RetryDelay < 0 {
		return errors.New("fetch.retry_delay must be >= 0")
	}
	if len(cfg.Symbols) != 3 {
		return fmt.Errorf("exactly 3 symbols are required, got %d", len(cfg.Symbols))
	}
	seen := make(map[string]struct{}, len(cfg.Symbols))
	for _, sym := range cfg.Symbols {
		if sym.Alias == "" || sym.ID == "" {
			return errors.New("every symbol needs a non-empty alias and id")
		}
		if _, dup := seen[sym.Alias]; dup {
			return fmt.Errorf("duplicate symbol alias %q", sym.Alias)
		}
		seen[sym.Alias] = struct{}{}
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	if cfg.Telegram.Enabled && (cfg.Telegram.Token == "" || cfg.Telegram.ChatID == "") {
		return errors.New("telegram.token and telegram.chat_id are required when telegram is enabled")
	}
	return nil
}
