package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrNoTelegramToken = errors.New("TELEGRAM_TOKEN is required")

// Config keeps runtime settings for the client, the gateway and the bot.
type Config struct {
	GatewayURL     string
	ListenAddr     string
	DatabaseURL    string
	TelegramToken  string
	ReportInterval time.Duration
	InsecureTLS    bool
}

type fileConfig struct {
	GatewayURL          string  `mapstructure:"gateway_url"`
	ListenAddr          string  `mapstructure:"listen_addr"`
	DatabaseURL         string  `mapstructure:"database_url"`
	TelegramToken       string  `mapstructure:"telegram_token"`
	ReportIntervalHours float64 `mapstructure:"report_interval_hours"`
	InsecureTLS         bool    `mapstructure:"insecure_tls"`
}

var envKeys = map[string]string{
	"gateway_url":           "PLANNER_GATEWAY_URL",
	"listen_addr":           "PLANNER_LISTEN_ADDR",
	"database_url":          "DATABASE_URL",
	"telegram_token":        "TELEGRAM_TOKEN",
	"report_interval_hours": "REPORT_INTERVAL_HOURS",
	"insecure_tls":          "PLANNER_INSECURE_TLS",
}

// Load reads configuration from defaults, an optional YAML file named by
// PLANNER_CONFIG, and environment variables, later sources winning.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("gateway_url", "https://localhost:7168")
	v.SetDefault("listen_addr", ":7168")
	v.SetDefault("database_url", "planner.db")
	v.SetDefault("report_interval_hours", 5)
	v.SetDefault("insecure_tls", false)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	if err := v.BindEnv("config", "PLANNER_CONFIG"); err != nil {
		return Config{}, fmt.Errorf("bind PLANNER_CONFIG: %w", err)
	}

	if path := strings.TrimSpace(v.GetString("config")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var raw fileConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := Config{
		GatewayURL:     strings.TrimSpace(raw.GatewayURL),
		ListenAddr:     strings.TrimSpace(raw.ListenAddr),
		DatabaseURL:    strings.TrimSpace(raw.DatabaseURL),
		TelegramToken:  strings.TrimSpace(raw.TelegramToken),
		ReportInterval: hours(raw.ReportIntervalHours),
		InsecureTLS:    raw.InsecureTLS,
	}
	if cfg.ReportInterval == 0 {
		cfg.ReportInterval = 5 * time.Hour
	}
	return cfg, nil
}

// RequireTelegram fails when the bot cannot be started.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return ErrNoTelegramToken
	}
	return nil
}

func hours(h float64) time.Duration {
	if h <= 0 {
		return 0
	}
	return time.Duration(h * float64(time.Hour))
}
