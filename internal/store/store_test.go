package store

import (
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return s, path
}

func TestOpenMissingFileStartsFresh(t *testing.T) {
	s, _ := openTemp(t)
	s.View(func(st *State) {
		if len(st.Cards) != 0 || len(st.Users) != 0 || len(st.Groups) != 0 {
			t.Fatalf("expected empty state, got %+v", st)
		}
	})
}

func TestUpdatePersistsAndReopens(t *testing.T) {
	s, path := openTemp(t)

	err := s.Update(func(st *State) error {
		st.Cards["c1"] = &Card{Name: "Naruto", Movie: "Naruto", Rarity: "Common", FileID: "f1", Kind: MediaImage}
		u := st.EnsureUser(7, "alice", 1000)
		u.Cards["c1"] = 2
		st.EnsureGroup(-100, "chat").MessageCount = 3
		st.SudoUsers = append(st.SudoUsers, 42)
		return nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open after save returned error: %v", err)
	}
	reopened.View(func(st *State) {
		if st.Cards["c1"] == nil || st.Cards["c1"].Name != "Naruto" {
			t.Fatalf("card did not round-trip: %+v", st.Cards["c1"])
		}
		u := st.Users[7]
		if u == nil || u.Balance != 1000 || u.Cards["c1"] != 2 {
			t.Fatalf("user did not round-trip: %+v", u)
		}
		if st.Groups[-100] == nil || st.Groups[-100].MessageCount != 3 {
			t.Fatalf("group did not round-trip: %+v", st.Groups[-100])
		}
		if !st.IsSudo(42) {
			t.Fatal("sudo list did not round-trip")
		}
	})
}

func TestUpdateErrorDoesNotPersist(t *testing.T) {
	s, path := openTemp(t)
	if err := s.Update(func(st *State) error { return nil }); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	wantErr := os.ErrInvalid
	err := s.Update(func(st *State) error {
		st.EnsureUser(1, "bob", 500)
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("Update error = %v, want %v", err, wantErr)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	reopened.View(func(st *State) {
		if len(st.Users) != 0 {
			t.Fatalf("failed update leaked to disk: %+v", st.Users)
		}
	})
}

func TestOpenQuarantinesMalformedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	raw := `{
		"cards": {
			"good": {"name": "A", "movie": "M", "rarity": "Common", "file_id": "f", "type": "image"},
			"nofile": {"name": "B", "movie": "M", "rarity": "Rare", "file_id": "", "type": "image"},
			"weird": {"name": "C", "movie": "M", "rarity": "Epic", "file_id": "f3", "type": "gif"}
		},
		"users": {
			"1": {"username": "a", "balance": -5, "cards": {"good": 1, "gone": 2, "zero": 0},
				"favorite_cards": ["good", "good", "gone"], "married_to": 2},
			"2": {"username": "b", "balance": 10, "cards": {}, "married_to": 99},
			"3": null
		},
		"groups": {"-1": {"title": "g", "message_count": -4, "drop_threshold": -1}},
		"sudo_users": [],
		"pending_uploads": {"1": "image_card", "2": "bogus"}
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	s.View(func(st *State) {
		if st.Cards["nofile"] != nil {
			t.Fatal("card without file_id survived")
		}
		if st.Cards["weird"] == nil || st.Cards["weird"].Kind != MediaImage {
			t.Fatalf("unknown media kind not coerced: %+v", st.Cards["weird"])
		}

		u1 := st.Users[1]
		if u1 == nil {
			t.Fatal("user 1 dropped")
		}
		if u1.Balance != 0 {
			t.Fatalf("negative balance not clamped: %d", u1.Balance)
		}
		if _, ok := u1.Cards["gone"]; ok {
			t.Fatal("dangling owned card survived")
		}
		if _, ok := u1.Cards["zero"]; ok {
			t.Fatal("zero-count owned card survived")
		}
		if len(u1.FavoriteCards) != 1 || u1.FavoriteCards[0] != "good" {
			t.Fatalf("favorites not pruned to owned subset: %v", u1.FavoriteCards)
		}

		// u1 points at u2 but u2 points at 99: both cleared.
		if u1.MarriedTo != 0 || st.Users[2].MarriedTo != 0 {
			t.Fatalf("asymmetric marriage survived: %d, %d", u1.MarriedTo, st.Users[2].MarriedTo)
		}

		if _, ok := st.Users[3]; ok {
			t.Fatal("nil user survived")
		}

		g := st.Groups[-1]
		if g.MessageCount != 0 || g.DropThreshold != 0 {
			t.Fatalf("negative counters not clamped: %+v", g)
		}

		if st.Pending[1] != PendingImageCard {
			t.Fatalf("valid pending action dropped: %q", st.Pending[1])
		}
		if _, ok := st.Pending[2]; ok {
			t.Fatal("bogus pending action survived")
		}
	})
}

func TestResetWipesState(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Update(func(st *State) error {
		st.EnsureUser(1, "a", 100)
		return nil
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	s.View(func(st *State) {
		if len(st.Users) != 0 {
			t.Fatalf("state not wiped: %+v", st.Users)
		}
	})
}

func TestSaveToAndReplaceFromFile(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Update(func(st *State) error {
		st.EnsureUser(5, "carol", 777)
		return nil
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	backup := filepath.Join(t.TempDir(), "backup.json")
	if err := s.SaveTo(backup); err != nil {
		t.Fatalf("SaveTo returned error: %v", err)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if err := s.ReplaceFromFile(backup); err != nil {
		t.Fatalf("ReplaceFromFile returned error: %v", err)
	}

	s.View(func(st *State) {
		u := st.Users[5]
		if u == nil || u.Balance != 777 {
			t.Fatalf("backup not restored: %+v", u)
		}
	})
}

func TestReplaceFromFileKeepsStateOnParseError(t *testing.T) {
	s, _ := openTemp(t)
	if err := s.Update(func(st *State) error {
		st.EnsureUser(5, "carol", 777)
		return nil
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := s.ReplaceFromFile(bad); err == nil {
		t.Fatal("expected parse error")
	}
	s.View(func(st *State) {
		if st.Users[5] == nil {
			t.Fatal("state lost after failed restore")
		}
	})
}

func TestEnsureUserUpdatesUsername(t *testing.T) {
	s, _ := openTemp(t)
	err := s.Update(func(st *State) error {
		st.EnsureUser(1, "old", 100)
		u := st.EnsureUser(1, "new", 100)
		if u.Balance != 100 {
			t.Fatalf("starting balance reapplied: %d", u.Balance)
		}
		if u.Username != "new" {
			t.Fatalf("username not refreshed: %q", u.Username)
		}
		// Empty username keeps the previous one.
		st.EnsureUser(1, "", 100)
		if u.Username != "new" {
			t.Fatalf("empty username overwrote: %q", u.Username)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
}
