// Package rankings produces the read-only leaderboard and progress views:
// top collectors, earned titles and mission progress.
package rankings

import (
	"sort"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/missions"
	"card-collection-bot/internal/store"
)

// Entry is one leaderboard row.
type Entry struct {
	UserID    int64
	Username  string
	CardCount int
	Titles    []string
}

// Progress is one row of the per-user mission view.
type Progress struct {
	Mission  missions.Mission
	Done     bool
	Progress int // min(total cards, requirement)
}

// Service reads ranking views from the store.
type Service struct {
	store *store.Store
}

// NewService creates the rankings service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Top returns up to limit users ordered by cumulative card count.
// Ties break by user id so the ordering is stable.
func (s *Service) Top(limit int) []Entry {
	var entries []Entry
	s.store.View(func(st *store.State) {
		for id, u := range st.Users {
			entries = append(entries, Entry{
				UserID:    id,
				Username:  u.Username,
				CardCount: u.TotalCards(),
				Titles:    append([]string(nil), u.Titles...),
			})
		}
	})

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CardCount != entries[j].CardCount {
			return entries[i].CardCount > entries[j].CardCount
		}
		return entries[i].UserID < entries[j].UserID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Titles returns the user's earned titles in grant order.
func (s *Service) Titles(userID int64) ([]string, error) {
	var (
		titles []string
		found  bool
	)
	s.store.View(func(st *store.State) {
		u, ok := st.Users[userID]
		if !ok {
			return
		}
		found = true
		titles = append([]string(nil), u.Titles...)
	})
	if !found {
		return nil, common.ErrUnknownUser
	}
	return titles, nil
}

// MissionProgress returns every mission with the user's progress toward it.
func (s *Service) MissionProgress(userID int64) ([]Progress, error) {
	var (
		rows  []Progress
		found bool
	)
	s.store.View(func(st *store.State) {
		u, ok := st.Users[userID]
		if !ok {
			return
		}
		found = true
		total := u.TotalCards()
		for _, m := range missions.Table {
			p := total
			if p > m.Requirement {
				p = m.Requirement
			}
			rows = append(rows, Progress{
				Mission:  m,
				Done:     u.HasCompleted(m.ID),
				Progress: p,
			})
		}
	})
	if !found {
		return nil, common.ErrUnknownUser
	}
	return rows, nil
}
