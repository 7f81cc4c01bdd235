package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Data struct {
		CSVPath     string `yaml:"csv_path"`
		Symbol      string `yaml:"symbol"`
		RefreshCron string `yaml:"refresh_cron"`
		RefreshDays int    `yaml:"refresh_days"`
	} `yaml:"data"`
	Watch struct {
		Cron string `yaml:"cron"`
	} `yaml:"watch"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// CronParser accepts the six-field (with seconds) specs used by the scheduler.
var CronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
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
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.Data.CSVPath = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.Data.Symbol = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Data.RefreshCron = v
	}
	if v := os.Getenv("REFRESH_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Data.RefreshDays = days
		}
	}
	if v := os.Getenv("WATCH_CRON"); v != "" {
		cfg.Watch.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}
	if cfg.Data.CSVPath == "" {
		cfg.Data.CSVPath = "data/ETH-USD.csv"
	}
	if cfg.Data.Symbol == "" {
		cfg.Data.Symbol = "ETH-USD"
	}
	if cfg.Data.RefreshDays == 0 {
		cfg.Data.RefreshDays = 365
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Data.CSVPath == "" {
		return fmt.Errorf("data.csv_path is required")
	}
	if c.Data.RefreshDays < 0 {
		return fmt.Errorf("data.refresh_days must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Data.RefreshCron != "" {
		if _, err := CronParser.Parse(c.Data.RefreshCron); err != nil {
			return fmt.Errorf("data.refresh_cron: %w", err)
		}
	}
	if c.Watch.Cron != "" {
		if _, err := CronParser.Parse(c.Watch.Cron); err != nil {
			return fmt.Errorf("watch.cron: %w", err)
		}
	}
	return nil
}
