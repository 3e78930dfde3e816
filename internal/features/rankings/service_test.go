package rankings

import (
	"errors"
	"path/filepath"
	"testing"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/missions"
	"card-collection-bot/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return NewService(st), st
}

func seedUser(t *testing.T, st *store.Store, userID int64, username string, cards int, titles ...string) {
	t.Helper()
	err := st.Update(func(s *store.State) error {
		u := s.EnsureUser(userID, username, 0)
		if cards > 0 {
			u.Cards["c"] = cards
		}
		u.Titles = append(u.Titles, titles...)
		return nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
}

func TestTopOrdersByCardCount(t *testing.T) {
	svc, st := newTestService(t)
	seedUser(t, st, 1, "alice", 5)
	seedUser(t, st, 2, "bob", 20)
	seedUser(t, st, 3, "carol", 5)
	seedUser(t, st, 4, "dave", 0)

	entries := svc.Top(3)
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].UserID != 2 || entries[0].CardCount != 20 {
		t.Fatalf("top entry = %+v", entries[0])
	}
	// Tied counts break by user id.
	if entries[1].UserID != 1 || entries[2].UserID != 3 {
		t.Fatalf("tie order = %d, %d, want 1, 3", entries[1].UserID, entries[2].UserID)
	}
}

func TestTitles(t *testing.T) {
	svc, st := newTestService(t)
	if _, err := svc.Titles(9); !errors.Is(err, common.ErrUnknownUser) {
		t.Fatalf("Titles error = %v, want %v", err, common.ErrUnknownUser)
	}

	seedUser(t, st, 1, "alice", 0, "🎴 Collector", "🏆 Master")
	titles, err := svc.Titles(1)
	if err != nil {
		t.Fatalf("Titles returned error: %v", err)
	}
	if len(titles) != 2 || titles[0] != "🎴 Collector" {
		t.Fatalf("titles = %v", titles)
	}
}

func TestMissionProgressCapsAtRequirement(t *testing.T) {
	svc, st := newTestService(t)
	seedUser(t, st, 1, "alice", 120)
	if err := st.Update(func(s *store.State) error {
		u := s.Users[1]
		u.CompletedMissions = []string{"collector", "master"}
		return nil
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	rows, err := svc.MissionProgress(1)
	if err != nil {
		t.Fatalf("MissionProgress returned error: %v", err)
	}
	if len(rows) != len(missions.Table) {
		t.Fatalf("rows = %d, want %d", len(rows), len(missions.Table))
	}

	byID := make(map[string]Progress)
	for _, r := range rows {
		byID[r.Mission.ID] = r
	}
	if !byID["collector"].Done || byID["collector"].Progress != 50 {
		t.Fatalf("collector row = %+v", byID["collector"])
	}
	if byID["legend"].Done || byID["legend"].Progress != 120 {
		t.Fatalf("legend row = %+v", byID["legend"])
	}
	if byID["champion"].Progress != 120 {
		t.Fatalf("champion row = %+v", byID["champion"])
	}
}
