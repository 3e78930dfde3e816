// catalog.go — the card catalog service: the core add/edit/delete mutators
// and the uniform pick used by live drops and shop packs.
package cards

import (
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/random"
	"card-collection-bot/internal/store"
)

// Service manages the global card catalog.
type Service struct {
	store *store.Store
	rng   random.Source
	now   func() time.Time
}

// NewService creates the catalog service.
func NewService(st *store.Store, rng random.Source) *Service {
	return &Service{store: st, rng: rng, now: time.Now}
}

// AddCard creates a catalog entry and returns its id.
func (s *Service) AddCard(name, movie, rarity, fileID string, kind store.MediaKind) (string, *store.Card, error) {
	if !ValidRarity(rarity) {
		return "", nil, common.ErrUnknownRarity
	}

	id := uuid.NewString()
	card := &store.Card{
		Name:      name,
		Movie:     movie,
		Rarity:    rarity,
		FileID:    fileID,
		Kind:      kind,
		CreatedAt: s.now(),
	}

	err := s.store.Update(func(st *store.State) error {
		st.Cards[id] = card
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	log.WithFields(log.Fields{
		"card_id": id,
		"name":    name,
		"rarity":  rarity,
	}).Info("Card added to catalog")
	return id, card, nil
}

// EditCard updates a card's name and source-work label.
func (s *Service) EditCard(cardID, name, movie string) error {
	return s.store.Update(func(st *store.State) error {
		card, ok := st.Cards[cardID]
		if !ok {
			return common.ErrUnknownCard
		}
		card.Name = name
		card.Movie = movie
		return nil
	})
}

// DeleteCard removes a card from the catalog. Owned copies survive in user
// collections as dangling ids until the next snapshot load prunes them.
func (s *Service) DeleteCard(cardID string) error {
	return s.store.Update(func(st *store.State) error {
		if _, ok := st.Cards[cardID]; !ok {
			return common.ErrUnknownCard
		}
		delete(st.Cards, cardID)
		return nil
	})
}

// Get returns a copy of a card by id.
func (s *Service) Get(cardID string) (store.Card, error) {
	var (
		card store.Card
		ok   bool
	)
	s.store.View(func(st *store.State) {
		var c *store.Card
		c, ok = st.Cards[cardID]
		if ok {
			card = *c
		}
	})
	if !ok {
		return store.Card{}, common.ErrUnknownCard
	}
	return card, nil
}

// Count returns the catalog size.
func (s *Service) Count() int {
	n := 0
	s.store.View(func(st *store.State) {
		n = len(st.Cards)
	})
	return n
}

// PickUniform selects a card uniformly from the entire catalog regardless
// of rarity weight. This asymmetry is deliberate: the weight table prices
// tiers, it does not drive either drop path. The caller must hold the
// store lock (run inside Update or View).
func PickUniform(st *store.State, rng random.Source) (string, *store.Card, bool) {
	if len(st.Cards) == 0 {
		return "", nil, false
	}
	ids := make([]string, 0, len(st.Cards))
	for id := range st.Cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	id := ids[rng.IntN(len(ids))]
	return id, st.Cards[id], true
}

// PruneInvalid quarantines catalog entries with unknown rarities. Called
// once after the snapshot loads; the store itself cannot judge rarity
// names.
func (s *Service) PruneInvalid() {
	dropped := 0
	err := s.store.Update(func(st *store.State) error {
		for id, c := range st.Cards {
			if !ValidRarity(c.Rarity) {
				delete(st.Cards, id)
				dropped++
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Catalog prune failed")
	}
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("Quarantined cards with unknown rarity")
	}
}
