// Package common contains small utilities shared across the project:
// number formatting and cooldown formatting for user-facing messages.
package common

import (
	"fmt"
	"time"
)

// FormatCoins formats a coin amount with thousands separators.
// Example: FormatCoins(12500) → "12,500".
func FormatCoins(n int64) string {
	if n < 0 {
		return "-" + FormatCoins(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatCoins(n/1000), n%1000)
}

// FormatCooldown renders a remaining wait as "Xh Ym", rounding the minute
// part up so "23h 59m 30s left" never reads as zero.
func FormatCooldown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	remaining = remaining.Round(time.Minute)
	h := int(remaining / time.Hour)
	m := int(remaining % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatDateTime formats a timestamp for display: "02.01.2006 15:04".
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}
