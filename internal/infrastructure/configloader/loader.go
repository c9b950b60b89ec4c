package configloader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	VsCurrency           string  `yaml:"vsCurrency"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RequestsPerSecond    float64 `yaml:"requestsPerSecond"`
}

// PriceSyncConfig holds configuration for the price sync engine.
type PriceSyncConfig struct {
	PollIntervalMillis int64 `yaml:"pollIntervalMillis"`
}

// ChartConfig holds configuration for the chart series fetcher.
type ChartConfig struct {
	CacheTTLSeconds int `yaml:"cacheTTLSeconds"`
}

// CatalogConfig holds the asset catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	CoinGecko CoinGeckoConfig `yaml:"coingecko"`
	PriceSync PriceSyncConfig `yaml:"priceSync"`
	Chart     ChartConfig     `yaml:"chart"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills in default values for anything the file left unset.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 10
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.VsCurrency == "" {
		cfg.CoinGecko.VsCurrency = "usd"
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.RequestsPerSecond <= 0 {
		// Public API allowance; keeps the poller and chart fetches under the
		// unauthenticated rate limit.
		cfg.CoinGecko.RequestsPerSecond = 0.5
	}

	if cfg.PriceSync.PollIntervalMillis <= 0 {
		cfg.PriceSync.PollIntervalMillis = 300000 // 5 minutes
	}

	if cfg.Chart.CacheTTLSeconds <= 0 {
		cfg.Chart.CacheTTLSeconds = 60
	}

	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "data/assets.json"
	}
}
