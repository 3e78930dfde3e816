// service.go — economy business logic: balance queries, user-to-user
// transfers and the daily reward with its 24-hour cooldown.
package economy

import (
	"time"

	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/random"
	"card-collection-bot/internal/store"
)

// DailyCooldown is how long a user waits between daily reward claims.
const DailyCooldown = 24 * time.Hour

// Service coordinates economy operations on the snapshot store.
type Service struct {
	store           *store.Store
	rng             random.Source
	startingBalance int64
	rewardMin       int64
	rewardMax       int64
	now             func() time.Time
}

// NewService creates the economy service.
func NewService(st *store.Store, rng random.Source, startingBalance, rewardMin, rewardMax int64) *Service {
	return &Service{
		store:           st,
		rng:             rng,
		startingBalance: startingBalance,
		rewardMin:       rewardMin,
		rewardMax:       rewardMax,
		now:             time.Now,
	}
}

// EnsureUser lazily creates the account on first interaction.
func (s *Service) EnsureUser(userID int64, username string) error {
	return s.store.Update(func(st *store.State) error {
		st.EnsureUser(userID, username, s.startingBalance)
		return nil
	})
}

// Account is a read-only snapshot of a user's balance and collection size.
type Account struct {
	Balance   int64
	CardCount int
}

// GetAccount returns the user's balance and distinct card count.
func (s *Service) GetAccount(userID int64) (Account, error) {
	var (
		acc   Account
		found bool
	)
	s.store.View(func(st *store.State) {
		u, ok := st.Users[userID]
		if !ok {
			return
		}
		found = true
		acc = Account{Balance: u.Balance, CardCount: len(u.Cards)}
	})
	if !found {
		return Account{}, common.ErrUnknownUser
	}
	return acc, nil
}

// Transfer moves coins from one user to another. Both legs happen under a
// single store update, so a racing wager cannot interleave.
func (s *Service) Transfer(fromID, toID int64, amount int64) error {
	if fromID == toID {
		return common.ErrSelfTransfer
	}
	if amount <= 0 {
		return common.ErrInvalidWager
	}

	err := s.store.Update(func(st *store.State) error {
		from, ok := st.Users[fromID]
		if !ok {
			return common.ErrUnknownUser
		}
		to, ok := st.Users[toID]
		if !ok {
			return common.ErrUnknownUser
		}
		if err := Debit(from, amount); err != nil {
			return err
		}
		return Credit(to, amount)
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"from":   fromID,
		"to":     toID,
		"amount": amount,
	}).Info("Coins transferred")
	return nil
}

// ClaimDaily grants a uniformly random reward in [rewardMin, rewardMax]
// once per 24 hours. On cooldown it returns ErrCooldownActive along with
// the remaining wait, and mutates nothing.
func (s *Service) ClaimDaily(userID int64, username string) (int64, time.Duration, error) {
	var (
		reward    int64
		remaining time.Duration
	)
	err := s.store.Update(func(st *store.State) error {
		u := st.EnsureUser(userID, username, s.startingBalance)
		now := s.now()

		if u.LastDaily != nil {
			elapsed := now.Sub(*u.LastDaily)
			if elapsed < DailyCooldown {
				remaining = DailyCooldown - elapsed
				return common.ErrCooldownActive
			}
		}

		span := int(s.rewardMax - s.rewardMin + 1)
		reward = s.rewardMin + int64(s.rng.IntN(span))
		if err := Credit(u, reward); err != nil {
			return err
		}
		u.LastDaily = &now
		return nil
	})
	if err != nil {
		return 0, remaining, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"reward":  reward,
	}).Info("Daily reward claimed")
	return reward, 0, nil
}
