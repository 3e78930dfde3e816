package drops

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"card-collection-bot/internal/store"
)

type stubSource struct{ n int }

func (s *stubSource) Float64() float64 { return 0 }
func (s *stubSource) IntN(n int) int   { return s.n % n }

func newTestService(t *testing.T, threshold int) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return NewService(st, &stubSource{}, threshold, 30*time.Second, 1000), st
}

func addCard(t *testing.T, st *store.Store, id, name, rarity string) {
	t.Helper()
	err := st.Update(func(s *store.State) error {
		s.Cards[id] = &store.Card{Name: name, Movie: "M", Rarity: rarity, FileID: "f", Kind: store.MediaImage}
		return nil
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
}

func messageCount(t *testing.T, st *store.Store, chatID int64) int {
	t.Helper()
	count := -1
	st.View(func(s *store.State) {
		if g, ok := s.Groups[chatID]; ok {
			count = g.MessageCount
		}
	})
	return count
}

func TestDropFiresAtThresholdAndResetsCounter(t *testing.T) {
	svc, st := newTestService(t, 3)
	addCard(t, st, "c1", "Naruto", "Common")

	for i := 0; i < 2; i++ {
		drop, err := svc.HandleGroupMessage(-1, "chat", 1, "alice")
		if err != nil {
			t.Fatalf("HandleGroupMessage returned error: %v", err)
		}
		if drop != nil {
			t.Fatalf("drop fired after %d messages", i+1)
		}
	}
	if got := messageCount(t, st, -1); got != 2 {
		t.Fatalf("counter = %d, want 2", got)
	}

	drop, err := svc.HandleGroupMessage(-1, "chat", 1, "alice")
	if err != nil {
		t.Fatalf("HandleGroupMessage returned error: %v", err)
	}
	if drop == nil || drop.CardID != "c1" || drop.Card.Name != "Naruto" {
		t.Fatalf("drop = %+v, want card c1", drop)
	}
	if got := messageCount(t, st, -1); got != 0 {
		t.Fatalf("counter after drop = %d, want 0", got)
	}

	st.View(func(s *store.State) {
		if s.Groups[-1].LastDrop == nil {
			t.Fatal("LastDrop not recorded")
		}
	})
}

func TestEmptyCatalogThresholdIsSilentNoOp(t *testing.T) {
	svc, st := newTestService(t, 2)

	if _, err := svc.HandleGroupMessage(-1, "chat", 1, "alice"); err != nil {
		t.Fatalf("HandleGroupMessage returned error: %v", err)
	}
	drop, err := svc.HandleGroupMessage(-1, "chat", 1, "alice")
	if err != nil {
		t.Fatalf("HandleGroupMessage returned error: %v", err)
	}
	if drop != nil {
		t.Fatalf("drop fired from empty catalog: %+v", drop)
	}
	if got := messageCount(t, st, -1); got != 0 {
		t.Fatalf("counter after silent threshold = %d, want 0", got)
	}
}

func TestSetThresholdOverridesDefault(t *testing.T) {
	svc, st := newTestService(t, 50)
	addCard(t, st, "c1", "Naruto", "Common")

	if err := svc.SetThreshold(-1, "chat", 2); err != nil {
		t.Fatalf("SetThreshold returned error: %v", err)
	}

	if _, err := svc.HandleGroupMessage(-1, "chat", 1, "alice"); err != nil {
		t.Fatalf("HandleGroupMessage returned error: %v", err)
	}
	drop, err := svc.HandleGroupMessage(-1, "chat", 1, "alice")
	if err != nil {
		t.Fatalf("HandleGroupMessage returned error: %v", err)
	}
	if drop == nil {
		t.Fatal("drop did not fire at the overridden threshold")
	}
}

func fireDrop(t *testing.T, svc *Service, st *store.Store, chatID int64) *Drop {
	t.Helper()
	var drop *Drop
	for i := 0; i < 100 && drop == nil; i++ {
		var err error
		drop, err = svc.HandleGroupMessage(chatID, "chat", 1, "alice")
		if err != nil {
			t.Fatalf("HandleGroupMessage returned error: %v", err)
		}
	}
	if drop == nil {
		t.Fatal("drop never fired")
	}
	return drop
}

func TestAttemptCatch(t *testing.T) {
	svc, st := newTestService(t, 1)
	addCard(t, st, "c1", "Naruto", "Legendary")
	fireDrop(t, svc, st, -1)

	res, err := svc.AttemptCatch(-1, 2, "bob", "Sasuke")
	if err != nil {
		t.Fatalf("AttemptCatch returned error: %v", err)
	}
	if res.Outcome != OutcomeWrongGuess {
		t.Fatalf("outcome = %v, want wrong guess", res.Outcome)
	}

	// Wrong guesses do not consume the window; a case-insensitive,
	// whitespace-tolerant correct guess wins.
	res, err = svc.AttemptCatch(-1, 2, "bob", "  nArUtO ")
	if err != nil {
		t.Fatalf("AttemptCatch returned error: %v", err)
	}
	if res.Outcome != OutcomeCaught || res.CardID != "c1" {
		t.Fatalf("result = %+v, want caught c1", res)
	}
	if res.Coins != 100 {
		t.Fatalf("coins = %d, want Legendary value 100", res.Coins)
	}

	st.View(func(s *store.State) {
		u := s.Users[2]
		if u.Cards["c1"] != 1 {
			t.Fatalf("owned count = %d, want 1", u.Cards["c1"])
		}
		if u.Balance != 1000+100 {
			t.Fatalf("balance = %d, want 1100", u.Balance)
		}
	})

	// The window was consumed.
	res, err = svc.AttemptCatch(-1, 3, "carol", "Naruto")
	if err != nil {
		t.Fatalf("AttemptCatch returned error: %v", err)
	}
	if res.Outcome != OutcomeNoActiveDrop {
		t.Fatalf("outcome after consume = %v, want no active drop", res.Outcome)
	}
}

func TestAttemptCatchWithoutDrop(t *testing.T) {
	svc, _ := newTestService(t, 50)
	res, err := svc.AttemptCatch(-1, 1, "alice", "anything")
	if err != nil {
		t.Fatalf("AttemptCatch returned error: %v", err)
	}
	if res.Outcome != OutcomeNoActiveDrop {
		t.Fatalf("outcome = %v, want no active drop", res.Outcome)
	}
}

func TestCatchWindowExpiry(t *testing.T) {
	svc, st := newTestService(t, 1)
	addCard(t, st, "c1", "Naruto", "Common")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	fireDrop(t, svc, st, -1)

	// Just inside the window still catches.
	svc.now = func() time.Time { return base.Add(30 * time.Second) }
	res, err := svc.AttemptCatch(-1, 2, "bob", "Naruto")
	if err != nil {
		t.Fatalf("AttemptCatch returned error: %v", err)
	}
	if res.Outcome != OutcomeCaught {
		t.Fatalf("outcome at TTL = %v, want caught", res.Outcome)
	}

	// New drop, then let it expire.
	svc.now = func() time.Time { return base }
	fireDrop(t, svc, st, -2)
	svc.now = func() time.Time { return base.Add(30*time.Second + time.Millisecond) }
	res, err = svc.AttemptCatch(-2, 2, "bob", "Naruto")
	if err != nil {
		t.Fatalf("AttemptCatch returned error: %v", err)
	}
	if res.Outcome != OutcomeNoActiveDrop {
		t.Fatalf("outcome after expiry = %v, want no active drop", res.Outcome)
	}
}

func TestCatchIsExactlyOnceUnderContention(t *testing.T) {
	svc, st := newTestService(t, 1)
	addCard(t, st, "c1", "Naruto", "Common")
	fireDrop(t, svc, st, -1)

	const racers = 16
	var wg sync.WaitGroup
	outcomes := make([]Outcome, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.AttemptCatch(-1, int64(100+i), "u", "Naruto")
			if err != nil {
				t.Errorf("AttemptCatch returned error: %v", err)
				return
			}
			outcomes[i] = res.Outcome
		}(i)
	}
	wg.Wait()

	caught := 0
	for _, o := range outcomes {
		if o == OutcomeCaught {
			caught++
		}
	}
	if caught != 1 {
		t.Fatalf("%d racers caught the card, want exactly 1", caught)
	}

	total := 0
	st.View(func(s *store.State) {
		for _, u := range s.Users {
			total += u.Cards["c1"]
		}
	})
	if total != 1 {
		t.Fatalf("%d copies awarded, want 1", total)
	}
}

func TestNewDropReplacesOldWindow(t *testing.T) {
	svc, st := newTestService(t, 1)
	addCard(t, st, "c1", "Naruto", "Common")
	fireDrop(t, svc, st, -1)

	// A second drop in the same chat replaces the first window; both point
	// at c1 here, but the window object must be the fresh one.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	fireDrop(t, svc, st, -1)

	svc.mu.Lock()
	w := svc.windows[-1]
	svc.mu.Unlock()
	if w == nil || !w.createdAt.Equal(base) {
		t.Fatalf("window not replaced: %+v", w)
	}
}
