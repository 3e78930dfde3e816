// service.go — the drop trigger state machine and catch resolution.
//
// Every group message increments the chat's counter; at the threshold the
// counter resets and, if the catalog is non-empty, a card is picked
// uniformly and a catch window opens. The first correct guess within 30
// seconds wins the card; the window is consumed atomically so two racing
// correct guesses can never both score.
package drops

import (
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/features/cards"
	"card-collection-bot/internal/features/economy"
	"card-collection-bot/internal/features/missions"
	"card-collection-bot/internal/random"
	"card-collection-bot/internal/store"
)

// Service owns the drop counters (persisted per group) and the catch
// windows (process memory only).
type Service struct {
	store            *store.Store
	rng              random.Source
	defaultThreshold int
	windowTTL        time.Duration
	startingBalance  int64
	now              func() time.Time

	mu      sync.Mutex
	windows map[int64]*window
}

// NewService creates the drop service.
func NewService(st *store.Store, rng random.Source, defaultThreshold int, windowTTL time.Duration, startingBalance int64) *Service {
	return &Service{
		store:            st,
		rng:              rng,
		defaultThreshold: defaultThreshold,
		windowTTL:        windowTTL,
		startingBalance:  startingBalance,
		now:              time.Now,
		windows:          make(map[int64]*window),
	}
}

// HandleGroupMessage counts one message for the chat and returns a Drop
// when the threshold fires and a card exists. A threshold event with an
// empty catalog still resets the counter but yields (nil, nil) — a silent
// no-op, not an error.
func (s *Service) HandleGroupMessage(chatID int64, chatTitle string, userID int64, username string) (*Drop, error) {
	var drop *Drop

	err := s.store.Update(func(st *store.State) error {
		st.EnsureUser(userID, username, s.startingBalance)
		g := st.EnsureGroup(chatID, chatTitle)

		g.MessageCount++

		threshold := g.DropThreshold
		if threshold <= 0 {
			threshold = s.defaultThreshold
		}
		if g.MessageCount < threshold {
			return nil
		}

		// Threshold reached: the counter resets whether or not a card
		// can actually drop.
		g.MessageCount = 0
		now := s.now()
		g.LastDrop = &now

		id, card, ok := cards.PickUniform(st, s.rng)
		if !ok {
			return nil
		}
		drop = &Drop{ChatID: chatID, CardID: id, Card: *card}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if drop == nil {
		return nil, nil
	}

	s.openWindow(chatID, drop.CardID, drop.Card.Name)
	log.WithFields(log.Fields{
		"chat_id": chatID,
		"card_id": drop.CardID,
		"rarity":  drop.Card.Rarity,
	}).Info("Card dropped")
	return drop, nil
}

// openWindow installs a fresh catch window for the chat, silently
// discarding any previous one — drops are not queued.
func (s *Service) openWindow(chatID int64, cardID, cardName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[chatID] = &window{
		cardID:    cardID,
		match:     strings.ToLower(strings.TrimSpace(cardName)),
		createdAt: s.now(),
	}
}

// SetThreshold overrides the drop threshold for one chat.
func (s *Service) SetThreshold(chatID int64, chatTitle string, threshold int) error {
	return s.store.Update(func(st *store.State) error {
		g := st.EnsureGroup(chatID, chatTitle)
		g.DropThreshold = threshold
		return nil
	})
}

// AttemptCatch resolves a guess against the chat's window. The window is
// consumed under the window lock before any awarding happens, which makes
// a catch exactly-once: the loser of a race observes NoActiveDrop.
func (s *Service) AttemptCatch(chatID, userID int64, username, guess string) (*CatchResult, error) {
	guess = strings.ToLower(strings.TrimSpace(guess))

	s.mu.Lock()
	w, ok := s.windows[chatID]
	if !ok {
		s.mu.Unlock()
		return &CatchResult{Outcome: OutcomeNoActiveDrop}, nil
	}
	if s.now().Sub(w.createdAt) > s.windowTTL {
		// Expired: discard the stale window as a side effect.
		delete(s.windows, chatID)
		s.mu.Unlock()
		return &CatchResult{Outcome: OutcomeNoActiveDrop}, nil
	}
	if guess != w.match {
		s.mu.Unlock()
		return &CatchResult{Outcome: OutcomeWrongGuess}, nil
	}
	// Correct guess: consume the window before releasing the lock.
	delete(s.windows, chatID)
	cardID := w.cardID
	s.mu.Unlock()

	res := &CatchResult{Outcome: OutcomeCaught, CardID: cardID}
	err := s.store.Update(func(st *store.State) error {
		u := st.EnsureUser(userID, username, s.startingBalance)

		card, ok := st.Cards[cardID]
		if !ok {
			// The card was deleted while the window was open; treat
			// the drop as gone rather than crediting a ghost.
			res.Outcome = OutcomeNoActiveDrop
			return nil
		}
		res.Card = *card

		u.Cards[cardID]++

		tier, ok := cards.TierByName(card.Rarity)
		if ok {
			res.Coins = tier.Value
			if err := economy.Credit(u, tier.Value); err != nil {
				return err
			}
		}

		res.Completed = missions.Evaluate(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Outcome == OutcomeCaught {
		log.WithFields(log.Fields{
			"chat_id": chatID,
			"user_id": userID,
			"card_id": cardID,
			"coins":   res.Coins,
		}).Info("Card caught")
	}
	return res, nil
}
