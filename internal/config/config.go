// Package config provides configuration management for the market service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"gbce-market/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Market MarketConfig `mapstructure:"market"`
	Log    LogConfig    `mapstructure:"log"`
	Seed   []SeedStock  `mapstructure:"stocks"`
}

// MarketConfig holds metric calculation defaults.
type MarketConfig struct {
	WindowMinutes int `mapstructure:"window_minutes"` // VWSP trailing window
	PageSize      int `mapstructure:"page_size"`      // catalog listing page size
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// SeedStock is one catalog entry as declared in config. Seeding is the
// only construction-time gate: unknown stock types are rejected here,
// while stocks added through the API keep the deferred type check.
type SeedStock struct {
	Symbol             string  `mapstructure:"symbol"`
	Type               string  `mapstructure:"type"`
	LastDividend       float64 `mapstructure:"last_dividend"`
	FixedDividendRatio float64 `mapstructure:"fixed_dividend_ratio"`
	ParValue           float64 `mapstructure:"par_value"`
	Price              float64 `mapstructure:"price"`
}

// Stock converts the seed entry to a domain stock.
func (s SeedStock) Stock() *models.Stock {
	return &models.Stock{
		Symbol:             s.Symbol,
		Type:               models.StockType(s.Type),
		LastDividend:       s.LastDividend,
		FixedDividendRatio: s.FixedDividendRatio,
		ParValue:           s.ParValue,
		Price:              s.Price,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/gbce-market"
	}
	return filepath.Join(home, ".config", "gbce-market")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file is
// replaced with the shipped template before loading.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template and load that
			if err := createTemplateConfig(configDir, name); err != nil {
				return err
			}
			if err := v.ReadInConfig(); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("market.window_minutes", 15)
	v.SetDefault("market.page_size", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.file", false)
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GBCE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GBCE_LOG_FILE"); v != "" {
		cfg.Log.File = true
		cfg.Log.FilePath = v
	}
}

// Validate checks configuration values.
func (c *Config) Validate() error {
	if c.Market.WindowMinutes < 1 {
		return fmt.Errorf("window_minutes must be at least 1")
	}
	if c.Market.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1")
	}

	seen := make(map[string]bool)
	for _, s := range c.Seed {
		if s.Symbol == "" {
			return fmt.Errorf("seed stock with empty symbol")
		}
		if seen[s.Symbol] {
			return fmt.Errorf("duplicate seed symbol: %s", s.Symbol)
		}
		seen[s.Symbol] = true

		switch models.StockType(s.Type) {
		case models.StockCommon, models.StockPreferred:
		default:
			return fmt.Errorf("seed stock %s: invalid type %q (must be COMMON or PREFERRED)", s.Symbol, s.Type)
		}
		if s.LastDividend < 0 {
			return fmt.Errorf("seed stock %s: last_dividend must be non-negative", s.Symbol)
		}
		if s.ParValue <= 0 {
			return fmt.Errorf("seed stock %s: par_value must be positive", s.Symbol)
		}
		if s.Price < 0 {
			return fmt.Errorf("seed stock %s: price must be non-negative", s.Symbol)
		}
	}

	return nil
}
