package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OWNER_ID", "42")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BotToken != "123:abc" || cfg.OwnerID != 42 {
		t.Fatalf("required fields = %q, %d", cfg.BotToken, cfg.OwnerID)
	}
	if cfg.DataFile != "bot_data.json" || cfg.BackupFile != "bot_backup.json" {
		t.Fatalf("file defaults = %q, %q", cfg.DataFile, cfg.BackupFile)
	}
	if cfg.DropThresholdDefault != 50 || cfg.CatchWindow() != 30*time.Second {
		t.Fatalf("drop defaults = %d, %v", cfg.DropThresholdDefault, cfg.CatchWindow())
	}
	if cfg.EconomyStartingBalance != 1000 || cfg.DailyRewardMin != 500 || cfg.DailyRewardMax != 1000 {
		t.Fatalf("economy defaults = %d, %d, %d",
			cfg.EconomyStartingBalance, cfg.DailyRewardMin, cfg.DailyRewardMax)
	}
	if cfg.RateLimitWindow != time.Minute || cfg.RateLimitRequests != 10 {
		t.Fatalf("rate limit defaults = %d, %v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.BackupCronSpec != "0 * * * *" {
		t.Fatalf("cron default = %q", cfg.BackupCronSpec)
	}
}

func TestLoadRejectsZeroOwner(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("OWNER_ID", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero OWNER_ID")
	}
}

func TestValidate(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg.DailyRewardMax = cfg.DailyRewardMin - 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for inverted reward range")
	}

	cfg.DailyRewardMax = cfg.DailyRewardMin
	cfg.CatchWindowSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero catch window")
	}
}
