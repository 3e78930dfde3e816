// Package cards owns the card catalog and the rarity system.
// rarity.go defines the nine fixed tiers and the weighted selector.
package cards

import (
	"card-collection-bot/internal/random"
)

// Tier is one rarity category: a display emoji, the coin value paid out on
// a catch, and the nominal drop weight in percent.
type Tier struct {
	Name   string
	Emoji  string
	Value  int64
	Weight float64
}

// Tiers is the fixed tier table in declaration order. The order is a
// contract: the selector walks it cumulatively, so reordering changes
// which tier owns a boundary draw. Weights sum to exactly 100.0.
var Tiers = []Tier{
	{Name: "Common", Emoji: "⚪", Value: 10, Weight: 40},
	{Name: "Rare", Emoji: "🔵", Value: 25, Weight: 25},
	{Name: "Epic", Emoji: "🟣", Value: 50, Weight: 15},
	{Name: "Legendary", Emoji: "🟠", Value: 100, Weight: 10},
	{Name: "Mythic", Emoji: "🔴", Value: 200, Weight: 5},
	{Name: "Divine", Emoji: "🟡", Value: 400, Weight: 3},
	{Name: "Celestial", Emoji: "💎", Value: 800, Weight: 1.5},
	{Name: "Supreme", Emoji: "👑", Value: 1600, Weight: 0.4},
	{Name: "Animated", Emoji: "✨", Value: 3200, Weight: 0.1},
}

// AnimatedRarity is forced onto video cards at upload time.
const AnimatedRarity = "Animated"

// TierByName looks a tier up by its name.
func TierByName(name string) (Tier, bool) {
	for _, t := range Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// ValidRarity reports whether name is a known tier.
func ValidRarity(name string) bool {
	_, ok := TierByName(name)
	return ok
}

// SelectRarity draws a uniform value in [0, 100) and maps it to a tier by
// accumulating weights in declaration order.
func SelectRarity(rng random.Source) Tier {
	return tierFor(rng.Float64() * 100)
}

// tierFor returns the first tier whose cumulative weight reaches r.
// The fallback to the lowest-value tier is unreachable while the weights
// sum to 100, but keeps the function total under floating drift.
func tierFor(r float64) Tier {
	cumulative := 0.0
	for _, t := range Tiers {
		cumulative += t.Weight
		if r <= cumulative {
			return t
		}
	}
	return Tiers[0]
}
