package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	TelegramToken    string
	DatabaseURL      string
	ReminderInterval time.Duration
	DueSoonWindow    time.Duration
	DailySummaryTime string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DATABASE_URL", "tasktracker.db")
	v.SetDefault("REMINDER_INTERVAL", "30m")
	v.SetDefault("DUE_SOON_WINDOW", "60m")
	v.SetDefault("DAILY_SUMMARY_TIME", "09:00")

	cfg := Config{
		TelegramToken:    strings.TrimSpace(v.GetString("TELEGRAM_TOKEN")),
		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		ReminderInterval: v.GetDuration("REMINDER_INTERVAL"),
		DueSoonWindow:    v.GetDuration("DUE_SOON_WINDOW"),
		DailySummaryTime: strings.TrimSpace(v.GetString("DAILY_SUMMARY_TIME")),
	}

	if cfg.ReminderInterval < 0 {
		cfg.ReminderInterval = 0
	}
	if cfg.DueSoonWindow <= 0 {
		cfg.DueSoonWindow = time.Hour
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}
