package common

import (
	"testing"
	"time"
)

func TestFormatCoins(t *testing.T) {
	tcs := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12500, "12,500"},
		{1234567, "1,234,567"},
		{-12500, "-12,500"},
	}
	for _, tc := range tcs {
		if got := FormatCoins(tc.n); got != tc.want {
			t.Errorf("FormatCoins(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestFormatCooldown(t *testing.T) {
	tcs := []struct {
		d    time.Duration
		want string
	}{
		{23*time.Hour + 59*time.Minute + 30*time.Second, "24h 0m"},
		{90 * time.Minute, "1h 30m"},
		{29 * time.Second, "0h 0m"},
		{-time.Minute, "0h 0m"},
	}
	for _, tc := range tcs {
		if got := FormatCooldown(tc.d); got != tc.want {
			t.Errorf("FormatCooldown(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2025, 6, 1, 15, 4, 0, 0, time.UTC)
	if got := FormatDateTime(ts); got != "01.06.2025 15:04" {
		t.Fatalf("FormatDateTime = %q", got)
	}
}
