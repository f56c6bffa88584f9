package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server          ServerConfig          `yaml:"server"`
	BalanceProvider BalanceProviderConfig `yaml:"balanceProvider"`
	TokenLookup     TokenLookupConfig     `yaml:"tokenLookup"`
	PriceService    PriceServiceConfig    `yaml:"priceService"`
	MetadataService MetadataServiceConfig `yaml:"metadataService"`
	Logging         LoggingConfig         `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// BalanceProviderConfig holds the configuration for the bulk balance provider.
type BalanceProviderConfig struct {
	BaseURL              string `yaml:"baseURL"`
	ApiKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TokenLookupConfig holds the configuration for the metadata lookup service.
type TokenLookupConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RateLimit            int    `yaml:"rateLimit"`
	BurstLimit           int    `yaml:"burstLimit"`
}

// PriceServiceConfig holds the configuration for the external price service.
type PriceServiceConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// MetadataServiceConfig holds configuration for metadata enrichment.
type MetadataServiceConfig struct {
	MaxConcurrentLookups int `yaml:"maxConcurrentLookups"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File  string `yaml:"file"`
}

// LoadConfig loads configuration from a YAML file and applies defaults for
// optional fields.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	if cfg.BalanceProvider.BaseURL == "" {
		return nil, fmt.Errorf("balanceProvider.baseURL is required")
	}
	if cfg.BalanceProvider.ApiKey == "" {
		cfg.BalanceProvider.ApiKey = os.Getenv("BALANCE_PROVIDER_API_KEY")
	}
	if cfg.BalanceProvider.ApiKey == "" {
		return nil, fmt.Errorf("balanceProvider.apiKey is required (config file or BALANCE_PROVIDER_API_KEY)")
	}
	if cfg.BalanceProvider.RequestTimeoutMillis == 0 {
		cfg.BalanceProvider.RequestTimeoutMillis = 15000
		logrus.Infof("BalanceProvider.RequestTimeoutMillis not set, defaulting to %d ms", cfg.BalanceProvider.RequestTimeoutMillis)
	}

	if cfg.TokenLookup.BaseURL == "" {
		cfg.TokenLookup.BaseURL = "https://li.quest"
		logrus.Infof("TokenLookup.BaseURL not set, defaulting to %s", cfg.TokenLookup.BaseURL)
	}
	if cfg.TokenLookup.RequestTimeoutMillis == 0 {
		cfg.TokenLookup.RequestTimeoutMillis = 10000
	}
	if cfg.TokenLookup.RateLimit == 0 {
		cfg.TokenLookup.RateLimit = 20
	}
	if cfg.TokenLookup.BurstLimit == 0 {
		cfg.TokenLookup.BurstLimit = 10
	}

	if cfg.PriceService.BaseURL == "" {
		return nil, fmt.Errorf("priceService.baseURL is required")
	}
	if cfg.PriceService.RequestTimeoutMillis == 0 {
		cfg.PriceService.RequestTimeoutMillis = 10000
	}

	if cfg.MetadataService.MaxConcurrentLookups == 0 {
		cfg.MetadataService.MaxConcurrentLookups = 16
		logrus.Infof("MetadataService.MaxConcurrentLookups not set, defaulting to %d", cfg.MetadataService.MaxConcurrentLookups)
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}
