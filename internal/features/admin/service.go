// Package admin implements the owner/sudo tooling: card uploads behind a
// pending-conversation state machine, catalog edits, drop tuning, stats,
// backup/restore and the full reset.
package admin

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/cards"
	"card-collection-bot/internal/store"
)

// Service guards the administrative mutators.
type Service struct {
	store   *store.Store
	catalog *cards.Service
	ownerID int64
}

// NewService creates the admin service.
func NewService(st *store.Store, catalog *cards.Service, ownerID int64) *Service {
	return &Service{store: st, catalog: catalog, ownerID: ownerID}
}

// IsOwner reports whether the user is the configured bot owner.
func (s *Service) IsOwner(userID int64) bool {
	return userID == s.ownerID
}

// IsSudo reports whether the user is the owner or a granted sudo user.
func (s *Service) IsSudo(userID int64) bool {
	if s.IsOwner(userID) {
		return true
	}
	sudo := false
	s.store.View(func(st *store.State) {
		sudo = st.IsSudo(userID)
	})
	return sudo
}

// BeginPending arms an upload/restore conversation for the admin. Any
// previously pending action is replaced.
func (s *Service) BeginPending(userID int64, action store.PendingAction) error {
	return s.store.Update(func(st *store.State) error {
		st.Pending[userID] = action
		return nil
	})
}

// Pending returns the admin's armed action, PendingNone when idle.
func (s *Service) Pending(userID int64) store.PendingAction {
	action := store.PendingNone
	s.store.View(func(st *store.State) {
		if a, ok := st.Pending[userID]; ok {
			action = a
		}
	})
	return action
}

// ClearPending disarms the admin's conversation.
func (s *Service) ClearPending(userID int64) {
	err := s.store.Update(func(st *store.State) error {
		delete(st.Pending, userID)
		return nil
	})
	if err != nil {
		log.WithError(err).Error("ClearPending failed")
	}
}

// NewCard is what an upload produced, for the confirmation reply.
type NewCard struct {
	ID   string
	Card store.Card
}

// AddImageCard parses a "name | movie | rarity" caption and creates an
// image card from the received photo.
func (s *Service) AddImageCard(userID int64, caption, fileID string) (*NewCard, error) {
	parts := splitCaption(caption)
	if len(parts) != 3 {
		return nil, common.ErrBadCardFormat
	}
	name, movie, rarity := parts[0], parts[1], parts[2]

	id, card, err := s.catalog.AddCard(name, movie, rarity, fileID, store.MediaImage)
	if err != nil {
		return nil, err
	}
	s.ClearPending(userID)
	return &NewCard{ID: id, Card: *card}, nil
}

// AddVideoCard parses a "name | movie" caption and creates a video card;
// video cards are always Animated rarity.
func (s *Service) AddVideoCard(userID int64, caption, fileID string) (*NewCard, error) {
	parts := splitCaption(caption)
	if len(parts) != 2 {
		return nil, common.ErrBadCardFormat
	}
	name, movie := parts[0], parts[1]

	id, card, err := s.catalog.AddCard(name, movie, cards.AnimatedRarity, fileID, store.MediaVideo)
	if err != nil {
		return nil, err
	}
	s.ClearPending(userID)
	return &NewCard{ID: id, Card: *card}, nil
}

func splitCaption(caption string) []string {
	raw := strings.Split(caption, "|")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil
		}
		parts = append(parts, p)
	}
	return parts
}

// AddSudo grants admin rights to a user.
func (s *Service) AddSudo(userID int64) (added bool, err error) {
	err = s.store.Update(func(st *store.State) error {
		if st.IsSudo(userID) {
			return nil
		}
		st.SudoUsers = append(st.SudoUsers, userID)
		added = true
		return nil
	})
	return added, err
}

// SudoList returns the granted sudo user ids.
func (s *Service) SudoList() []int64 {
	var ids []int64
	s.store.View(func(st *store.State) {
		ids = append(ids, st.SudoUsers...)
	})
	return ids
}

// GroupStat is one row of the stats view.
type GroupStat struct {
	ChatID   int64
	Title    string
	Messages int
}

// Stats summarizes the snapshot for the /stats command.
type Stats struct {
	Users     int
	Groups    int
	Cards     int
	TopGroups []GroupStat
}

// GetStats returns totals plus the five busiest groups.
func (s *Service) GetStats() Stats {
	var stats Stats
	s.store.View(func(st *store.State) {
		stats.Users = len(st.Users)
		stats.Groups = len(st.Groups)
		stats.Cards = len(st.Cards)
		for id, g := range st.Groups {
			stats.TopGroups = append(stats.TopGroups, GroupStat{
				ChatID:   id,
				Title:    g.Title,
				Messages: g.MessageCount,
			})
		}
	})
	sort.Slice(stats.TopGroups, func(i, j int) bool {
		if stats.TopGroups[i].Messages != stats.TopGroups[j].Messages {
			return stats.TopGroups[i].Messages > stats.TopGroups[j].Messages
		}
		return stats.TopGroups[i].ChatID < stats.TopGroups[j].ChatID
	})
	if len(stats.TopGroups) > 5 {
		stats.TopGroups = stats.TopGroups[:5]
	}
	return stats
}

// Backup writes the snapshot to path for sending to the admin.
func (s *Service) Backup(path string) error {
	return s.store.SaveTo(path)
}

// Restore swaps in a snapshot downloaded from the admin.
func (s *Service) Restore(userID int64, path string) error {
	if err := s.store.ReplaceFromFile(path); err != nil {
		return err
	}
	s.ClearPending(userID)
	log.WithField("user_id", userID).Warn("Snapshot restored from backup")
	return nil
}

// Reset wipes all data. Owner-gated at the handler level behind an inline
// confirmation.
func (s *Service) Reset() error {
	log.Warn("Full data reset")
	return s.store.Reset()
}

// GroupIDs returns every known group chat id (broadcast fan-out).
func (s *Service) GroupIDs() []int64 {
	var ids []int64
	s.store.View(func(st *store.State) {
		for id := range st.Groups {
			ids = append(ids, id)
		}
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
