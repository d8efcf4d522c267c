package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		BaseURL    string   `yaml:"base_url"`
		APIKey     string   `yaml:"api_key"`
		Assets     []string `yaml:"assets"`
		Timeframes []string `yaml:"timeframes"`
	} `yaml:"data_source"`
	DataDir  string `yaml:"data_dir"`
	Pipeline struct {
		Steps           int     `yaml:"steps"`
		MinObservations int     `yaml:"min_observations"`
		Lookback        int     `yaml:"lookback"`
		DeadBand        float64 `yaml:"dead_band"`
		FitTimeoutSec   int     `yaml:"fit_timeout_seconds"`
		Workers         int     `yaml:"workers"`
	} `yaml:"pipeline"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Schedule struct {
		RunCron string `yaml:"run_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("CRON_RUN"); v != "" {
		cfg.Schedule.RunCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("FORECAST_STEPS"); v != "" {
		if steps, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.Steps = steps
		}
	}

	// Defaults
	if len(cfg.DataSource.Assets) == 0 {
		cfg.DataSource.Assets = []string{"bitcoin", "ethereum", "ravencoin", "tron"}
	}
	if len(cfg.DataSource.Timeframes) == 0 {
		cfg.DataSource.Timeframes = []string{"365days", "90days"}
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.Pipeline.Steps == 0 {
		cfg.Pipeline.Steps = 30
	}
	if cfg.Pipeline.MinObservations == 0 {
		cfg.Pipeline.MinObservations = 30
	}
	if cfg.Pipeline.Lookback == 0 {
		cfg.Pipeline.Lookback = 30
	}
	// A zero dead band means unset, not exact-compare.
	if cfg.Pipeline.DeadBand == 0 {
		cfg.Pipeline.DeadBand = 0.005
	}
	if cfg.Pipeline.FitTimeoutSec == 0 {
		cfg.Pipeline.FitTimeoutSec = 60
	}
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = 4
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Schedule.RunCron == "" {
		cfg.Schedule.RunCron = "0 0 6 * * *"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trendsage.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and sane.
func (c *Config) Validate() error {
	if len(c.DataSource.Assets) == 0 {
		return fmt.Errorf("data_source.assets must not be empty")
	}
	if len(c.DataSource.Timeframes) == 0 {
		return fmt.Errorf("data_source.timeframes must not be empty")
	}
	if c.Pipeline.Steps <= 0 {
		return fmt.Errorf("pipeline.steps must be positive")
	}
	if c.Pipeline.DeadBand < 0 {
		return fmt.Errorf("pipeline.dead_band must not be negative")
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("pipeline.workers must be positive")
	}
	return nil
}
