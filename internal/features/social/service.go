// Package social implements marriage between users. References are kept
// symmetric: either both partners point at each other or both are clear.
package social

import (
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/store"
)

// Service manages marriage state.
type Service struct {
	store           *store.Store
	startingBalance int64
}

// NewService creates the social service.
func NewService(st *store.Store, startingBalance int64) *Service {
	return &Service{store: st, startingBalance: startingBalance}
}

// CanMarry checks that neither user is already married. Used before
// sending a proposal; the actual marriage happens on Accept.
func (s *Service) CanMarry(proposerID, partnerID int64, proposerName, partnerName string) error {
	return s.store.Update(func(st *store.State) error {
		a := st.EnsureUser(proposerID, proposerName, s.startingBalance)
		b := st.EnsureUser(partnerID, partnerName, s.startingBalance)
		if a.MarriedTo != 0 || b.MarriedTo != 0 {
			return common.ErrAlreadyMarried
		}
		return nil
	})
}

// Accept marries the two users. Re-checks both sides so a proposal that
// raced another marriage fails instead of breaking symmetry.
func (s *Service) Accept(proposerID, partnerID int64) error {
	err := s.store.Update(func(st *store.State) error {
		a, ok := st.Users[proposerID]
		if !ok {
			return common.ErrUnknownUser
		}
		b, ok := st.Users[partnerID]
		if !ok {
			return common.ErrUnknownUser
		}
		if a.MarriedTo != 0 || b.MarriedTo != 0 {
			return common.ErrAlreadyMarried
		}
		a.MarriedTo = partnerID
		b.MarriedTo = proposerID
		return nil
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"a": proposerID, "b": partnerID}).Info("Marriage registered")
	return nil
}

// Divorce clears both sides of the marriage and returns the ex-partner id.
func (s *Service) Divorce(userID int64) (int64, error) {
	var partnerID int64
	err := s.store.Update(func(st *store.State) error {
		u, ok := st.Users[userID]
		if !ok {
			return common.ErrUnknownUser
		}
		if u.MarriedTo == 0 {
			return common.ErrNotMarried
		}
		partnerID = u.MarriedTo
		if p, ok := st.Users[partnerID]; ok {
			p.MarriedTo = 0
		}
		u.MarriedTo = 0
		return nil
	})
	return partnerID, err
}
