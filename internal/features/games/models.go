// Package games implements the three coin wager mini-games: slots, basket
// and wheel. models.go holds the game tables and result types.
package games

// Slot symbols. The last entry is the jackpot symbol — a triple of it pays
// ×10 instead of ×3.
var (
	SlotSymbols   = []string{"🍒", "🍋", "🍊", "🍇", "7️⃣"}
	JackpotSymbol = "7️⃣"
)

// Slot payout multipliers applied to the bet on a triple.
const (
	slotTripleMultiplier  = 3
	slotJackpotMultiplier = 10
)

// WheelMultipliers is the discrete multiplier set, drawn uniformly.
// 0 is a total loss, 1 returns the bet unchanged.
var WheelMultipliers = []float64{0, 0.5, 1, 1.5, 2, 3, 5, 10}

// SlotsResult describes one slots spin. Payout is the amount credited back
// (0 on a loss); Net is Payout minus the bet.
type SlotsResult struct {
	Symbols [3]string
	Win     bool
	Jackpot bool
	Payout  int64
	Net     int64
	Balance int64
}

// BasketResult describes one basket throw (a fair coin flip).
type BasketResult struct {
	Scored  bool
	Payout  int64
	Net     int64
	Balance int64
}

// WheelResult describes one wheel spin.
type WheelResult struct {
	Multiplier float64
	Payout     int64
	Net        int64
	Balance    int64
}
