// service.go runs a wager from validation to payout. Every game follows
// the same shape: check the bet, debit it, resolve the draw, credit the
// payout — all inside one store update so concurrent wagers for the same
// user cannot interleave.
package games

import (
	"math"

	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/economy"
	"card-collection-bot/internal/random"
	"card-collection-bot/internal/store"
)

// Service resolves wagers against the snapshot store.
type Service struct {
	store           *store.Store
	rng             random.Source
	startingBalance int64
}

// NewService creates the games service.
func NewService(st *store.Store, rng random.Source, startingBalance int64) *Service {
	return &Service{store: st, rng: rng, startingBalance: startingBalance}
}

// PlaySlots spins three independent symbols. A triple pays ×10 for the
// jackpot symbol, ×3 otherwise; anything else loses the bet.
func (s *Service) PlaySlots(userID int64, username string, bet int64) (*SlotsResult, error) {
	res := &SlotsResult{}
	err := s.play(userID, username, bet, func(u *store.User) int64 {
		for i := range res.Symbols {
			res.Symbols[i] = SlotSymbols[s.rng.IntN(len(SlotSymbols))]
		}
		if res.Symbols[0] == res.Symbols[1] && res.Symbols[1] == res.Symbols[2] {
			res.Win = true
			res.Jackpot = res.Symbols[0] == JackpotSymbol
			if res.Jackpot {
				return bet * slotJackpotMultiplier
			}
			return bet * slotTripleMultiplier
		}
		return 0
	}, &res.Payout, &res.Balance)
	if err != nil {
		return nil, err
	}
	res.Net = res.Payout - bet
	s.logResult("slots", userID, bet, res.Net)
	return res, nil
}

// PlayBasket is a single fair Bernoulli trial: a hit pays 2×bet.
func (s *Service) PlayBasket(userID int64, username string, bet int64) (*BasketResult, error) {
	res := &BasketResult{}
	err := s.play(userID, username, bet, func(u *store.User) int64 {
		res.Scored = s.rng.IntN(2) == 0
		if res.Scored {
			return bet * 2
		}
		return 0
	}, &res.Payout, &res.Balance)
	if err != nil {
		return nil, err
	}
	res.Net = res.Payout - bet
	s.logResult("basket", userID, bet, res.Net)
	return res, nil
}

// PlayWheel draws a multiplier from the discrete set; the payout is
// floor(bet × multiplier), truncated toward zero.
func (s *Service) PlayWheel(userID int64, username string, bet int64) (*WheelResult, error) {
	res := &WheelResult{}
	err := s.play(userID, username, bet, func(u *store.User) int64 {
		res.Multiplier = WheelMultipliers[s.rng.IntN(len(WheelMultipliers))]
		return int64(math.Floor(float64(bet) * res.Multiplier))
	}, &res.Payout, &res.Balance)
	if err != nil {
		return nil, err
	}
	res.Net = res.Payout - bet
	s.logResult("wheel", userID, bet, res.Net)
	return res, nil
}

// play is the shared wager skeleton. resolve runs after the bet has been
// debited and returns the payout to credit (0 for a loss). On any error
// nothing is mutated.
func (s *Service) play(userID int64, username string, bet int64, resolve func(u *store.User) int64, payout, balance *int64) error {
	if bet <= 0 {
		return common.ErrInvalidWager
	}
	return s.store.Update(func(st *store.State) error {
		u := st.EnsureUser(userID, username, s.startingBalance)
		if err := economy.Debit(u, bet); err != nil {
			return err
		}
		p := resolve(u)
		if err := economy.Credit(u, p); err != nil {
			return err
		}
		*payout = p
		*balance = u.Balance
		return nil
	})
}

func (s *Service) logResult(game string, userID, bet, net int64) {
	log.WithFields(log.Fields{
		"game":    game,
		"user_id": userID,
		"bet":     bet,
		"net":     net,
	}).Debug("Wager resolved")
}
