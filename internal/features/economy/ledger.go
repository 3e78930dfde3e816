// Package economy manages the coin economy: the balance ledger, transfers
// between users and the daily reward.
//
// ledger.go holds the primitive balance mutators. They are deliberately
// dumb: Debit refuses to overdraw and refuses to mutate on failure, but
// ordering wager checks before payouts is the caller's job. Both must be
// called inside a store Update so per-user mutation stays serialized.
package economy

import (
	"card-collection-bot/internal/common"
	"card-collection-bot/internal/store"
)

// Credit adds amount coins to the user's balance.
func Credit(u *store.User, amount int64) error {
	if amount < 0 {
		return common.ErrInvalidWager
	}
	u.Balance += amount
	return nil
}

// Debit removes amount coins from the user's balance. Fails with
// ErrInsufficientFunds, leaving the balance untouched, when the user
// cannot cover it.
func Debit(u *store.User, amount int64) error {
	if amount < 0 {
		return common.ErrInvalidWager
	}
	if u.Balance < amount {
		return common.ErrInsufficientFunds
	}
	u.Balance -= amount
	return nil
}
