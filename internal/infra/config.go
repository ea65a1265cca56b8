package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all bot settings loaded from the YAML config file.
// API credentials are deliberately absent: they come from command-line
// flags or environment variables and are never written to disk.
type Config struct {
	Logging struct {
		Level     string `yaml:"level"`
		LogToFile bool   `yaml:"log_to_file"`
		File      string `yaml:"file"`
	} `yaml:"logging"`

	Binance struct {
		StreamURL string `yaml:"stream_url"`
		APIURL    string `yaml:"api_url"`
		Symbol    string `yaml:"symbol"`
		DryRun    bool   `yaml:"dry_run"`
	} `yaml:"binance"`

	GridStrategy struct {
		Enable         bool    `yaml:"enable"`
		ReferencePrice float64 `yaml:"reference_price"`
		Size           int     `yaml:"size"`
		Spacing        float64 `yaml:"spacing"`
		AmountPerTrade float64 `yaml:"amount_per_trade"`
	} `yaml:"grid_strategy"`

	IntervalStrategy struct {
		Enable         bool    `yaml:"enable"`
		IntervalTime   int64   `yaml:"interval_time"` // milliseconds
		AmountPerTrade float64 `yaml:"amount_per_trade"`
	} `yaml:"interval_strategy"`

	Storage struct {
		TradesDB string `yaml:"trades_db"`
	} `yaml:"storage"`
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity. Setup faults are the only
// fatal error class, so everything checkable up front is checked here.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Binance.StreamURL, "ws://") && !strings.HasPrefix(c.Binance.StreamURL, "wss://") {
		return fmt.Errorf("invalid stream URL: %s", c.Binance.StreamURL)
	}
	if !strings.HasPrefix(c.Binance.APIURL, "http://") && !strings.HasPrefix(c.Binance.APIURL, "https://") {
		return fmt.Errorf("invalid API URL: %s", c.Binance.APIURL)
	}
	if c.Binance.Symbol == "" {
		return fmt.Errorf("a trading symbol is required")
	}

	if c.GridStrategy.Enable {
		if c.GridStrategy.Size <= 0 {
			return fmt.Errorf("grid size must be positive, got %d", c.GridStrategy.Size)
		}
		if c.GridStrategy.Spacing <= 0 {
			return fmt.Errorf("grid spacing must be positive, got %f", c.GridStrategy.Spacing)
		}
		if c.GridStrategy.ReferencePrice <= 0 {
			return fmt.Errorf("grid reference price must be positive, got %f", c.GridStrategy.ReferencePrice)
		}
		if c.GridStrategy.AmountPerTrade <= 0 {
			return fmt.Errorf("grid amount per trade must be positive, got %f", c.GridStrategy.AmountPerTrade)
		}
	}

	if c.IntervalStrategy.Enable {
		if c.IntervalStrategy.IntervalTime <= 0 {
			return fmt.Errorf("interval time must be positive, got %d", c.IntervalStrategy.IntervalTime)
		}
		if c.IntervalStrategy.AmountPerTrade <= 0 {
			return fmt.Errorf("interval amount per trade must be positive, got %f", c.IntervalStrategy.AmountPerTrade)
		}
	}

	return nil
}

// Credentials holds the Binance API key pair. Supplied via flags or
// environment, held in memory only.
type Credentials struct {
	APIKey    string
	APISecret string
}

// LoadCredentials resolves credentials from the given flag values,
// falling back to the BINANCE_API_KEY / BINANCE_API_SECRET environment
// variables. Empty credentials are allowed: the bot then runs in
// dry-run mode against the paper client.
func LoadCredentials(keyFlag, secretFlag string) Credentials {
	creds := Credentials{APIKey: keyFlag, APISecret: secretFlag}
	if creds.APIKey == "" {
		creds.APIKey = os.Getenv("BINANCE_API_KEY")
	}
	if creds.APISecret == "" {
		creds.APISecret = os.Getenv("BINANCE_API_SECRET")
	}
	return creds
}

// IsSet reports whether both key and secret are present.
func (c Credentials) IsSet() bool {
	return c.APIKey != "" && c.APISecret != ""
}
