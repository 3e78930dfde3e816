// Package config loads the bot configuration from environment
// variables via envconfig.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds ALL application settings.
type Config struct {
	// --- Telegram ---
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	OwnerID  int64  `envconfig:"OWNER_ID" required:"true"`

	// --- Storage ---
	DataFile   string `envconfig:"DATA_FILE" default:"bot_data.json"`
	BackupFile string `envconfig:"BACKUP_FILE" default:"bot_backup.json"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Bot runtime ---
	// How many updates are handled in parallel. A goroutine per update
	// with no cap means unbounded memory during a flood.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Long polling timeout in seconds.
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Drops ---
	DropThresholdDefault int `envconfig:"DROP_THRESHOLD_DEFAULT" default:"50"`
	CatchWindowSeconds   int `envconfig:"CATCH_WINDOW_SECONDS" default:"30"`

	// --- Economy ---
	EconomyStartingBalance int64 `envconfig:"ECONOMY_STARTING_BALANCE" default:"1000"`
	DailyRewardMin         int64 `envconfig:"DAILY_REWARD_MIN" default:"500"`
	DailyRewardMax         int64 `envconfig:"DAILY_REWARD_MAX" default:"1000"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Jobs ---
	BackupCronSpec string `envconfig:"BACKUP_CRON_SPEC" default:"0 * * * *"`
}

// CatchWindow returns the catch window as a duration.
func (c *Config) CatchWindow() time.Duration {
	return time.Duration(c.CatchWindowSeconds) * time.Second
}

func (c *Config) Validate() error {
	if c.OwnerID == 0 {
		return fmt.Errorf("OWNER_ID is not set")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT must be > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS must be > 0")
	}
	if c.DropThresholdDefault <= 0 {
		return fmt.Errorf("DROP_THRESHOLD_DEFAULT must be > 0")
	}
	if c.CatchWindowSeconds <= 0 {
		return fmt.Errorf("CATCH_WINDOW_SECONDS must be > 0")
	}
	if c.DailyRewardMin <= 0 || c.DailyRewardMax < c.DailyRewardMin {
		return fmt.Errorf("invalid DAILY_REWARD_MIN/DAILY_REWARD_MAX")
	}
	if c.EconomyStartingBalance < 0 {
		return fmt.Errorf("ECONOMY_STARTING_BALANCE must be >= 0")
	}
	return nil
}

// Load reads the environment and fills the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
