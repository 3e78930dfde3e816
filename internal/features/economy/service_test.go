package economy

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/random"
	"card-collection-bot/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "data.json"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return NewService(st, random.NewSeeded(1), 1000, 500, 1000), st
}

func balanceOf(t *testing.T, st *store.Store, userID int64) int64 {
	t.Helper()
	var balance int64 = -1
	st.View(func(s *store.State) {
		if u, ok := s.Users[userID]; ok {
			balance = u.Balance
		}
	})
	return balance
}

func TestLedgerDebitRefusesOverdraw(t *testing.T) {
	u := &store.User{Balance: 100}
	if err := Debit(u, 150); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("Debit error = %v, want %v", err, common.ErrInsufficientFunds)
	}
	if u.Balance != 100 {
		t.Fatalf("failed debit mutated balance: %d", u.Balance)
	}

	if err := Debit(u, 100); err != nil {
		t.Fatalf("Debit returned error: %v", err)
	}
	if u.Balance != 0 {
		t.Fatalf("balance = %d, want 0", u.Balance)
	}
}

func TestLedgerRejectsNegativeAmounts(t *testing.T) {
	u := &store.User{Balance: 10}
	if err := Credit(u, -1); !errors.Is(err, common.ErrInvalidWager) {
		t.Fatalf("Credit(-1) error = %v", err)
	}
	if err := Debit(u, -1); !errors.Is(err, common.ErrInvalidWager) {
		t.Fatalf("Debit(-1) error = %v", err)
	}
	if u.Balance != 10 {
		t.Fatalf("balance mutated: %d", u.Balance)
	}
}

func TestEnsureUserGrantsStartingBalanceOnce(t *testing.T) {
	svc, st := newTestService(t)
	if err := svc.EnsureUser(1, "alice"); err != nil {
		t.Fatalf("EnsureUser returned error: %v", err)
	}
	if err := svc.EnsureUser(1, "alice"); err != nil {
		t.Fatalf("EnsureUser returned error: %v", err)
	}
	if got := balanceOf(t, st, 1); got != 1000 {
		t.Fatalf("balance = %d, want 1000", got)
	}
}

func TestGetAccount(t *testing.T) {
	svc, st := newTestService(t)
	if _, err := svc.GetAccount(1); !errors.Is(err, common.ErrUnknownUser) {
		t.Fatalf("GetAccount error = %v, want %v", err, common.ErrUnknownUser)
	}

	if err := st.Update(func(s *store.State) error {
		u := s.EnsureUser(1, "alice", 1000)
		u.Cards["a"] = 3
		u.Cards["b"] = 1
		return nil
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	acc, err := svc.GetAccount(1)
	if err != nil {
		t.Fatalf("GetAccount returned error: %v", err)
	}
	if acc.Balance != 1000 || acc.CardCount != 2 {
		t.Fatalf("account = %+v, want balance 1000 and 2 distinct cards", acc)
	}
}

func TestTransfer(t *testing.T) {
	svc, st := newTestService(t)
	if err := svc.EnsureUser(1, "alice"); err != nil {
		t.Fatalf("EnsureUser returned error: %v", err)
	}
	if err := svc.EnsureUser(2, "bob"); err != nil {
		t.Fatalf("EnsureUser returned error: %v", err)
	}

	if err := svc.Transfer(1, 1, 10); !errors.Is(err, common.ErrSelfTransfer) {
		t.Fatalf("self transfer error = %v", err)
	}
	if err := svc.Transfer(1, 2, 0); !errors.Is(err, common.ErrInvalidWager) {
		t.Fatalf("zero transfer error = %v", err)
	}
	if err := svc.Transfer(1, 2, -5); !errors.Is(err, common.ErrInvalidWager) {
		t.Fatalf("negative transfer error = %v", err)
	}
	if err := svc.Transfer(1, 3, 10); !errors.Is(err, common.ErrUnknownUser) {
		t.Fatalf("unknown receiver error = %v", err)
	}
	if err := svc.Transfer(1, 2, 5000); !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("overdraw transfer error = %v", err)
	}
	if balanceOf(t, st, 1) != 1000 || balanceOf(t, st, 2) != 1000 {
		t.Fatal("failed transfer mutated balances")
	}

	if err := svc.Transfer(1, 2, 300); err != nil {
		t.Fatalf("Transfer returned error: %v", err)
	}
	if balanceOf(t, st, 1) != 700 || balanceOf(t, st, 2) != 1300 {
		t.Fatalf("balances after transfer: %d, %d", balanceOf(t, st, 1), balanceOf(t, st, 2))
	}
}

func TestClaimDaily(t *testing.T) {
	svc, st := newTestService(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	reward, _, err := svc.ClaimDaily(1, "alice")
	if err != nil {
		t.Fatalf("ClaimDaily returned error: %v", err)
	}
	if reward < 500 || reward > 1000 {
		t.Fatalf("reward = %d, want within [500, 1000]", reward)
	}
	if got := balanceOf(t, st, 1); got != 1000+reward {
		t.Fatalf("balance = %d, want %d", got, 1000+reward)
	}

	// Second claim an hour later is on cooldown.
	svc.now = func() time.Time { return base.Add(time.Hour) }
	_, remaining, err := svc.ClaimDaily(1, "alice")
	if !errors.Is(err, common.ErrCooldownActive) {
		t.Fatalf("ClaimDaily error = %v, want %v", err, common.ErrCooldownActive)
	}
	if remaining != 23*time.Hour {
		t.Fatalf("remaining = %v, want 23h", remaining)
	}
	if got := balanceOf(t, st, 1); got != 1000+reward {
		t.Fatalf("cooldown claim mutated balance: %d", got)
	}

	// A day later the claim succeeds again.
	svc.now = func() time.Time { return base.Add(DailyCooldown) }
	second, _, err := svc.ClaimDaily(1, "alice")
	if err != nil {
		t.Fatalf("ClaimDaily after cooldown returned error: %v", err)
	}
	if got := balanceOf(t, st, 1); got != 1000+reward+second {
		t.Fatalf("balance = %d, want %d", got, 1000+reward+second)
	}
}

func TestClaimDailyRewardRange(t *testing.T) {
	svc, _ := newTestService(t)
	svc.rewardMin = 5
	svc.rewardMax = 5

	reward, _, err := svc.ClaimDaily(9, "carol")
	if err != nil {
		t.Fatalf("ClaimDaily returned error: %v", err)
	}
	if reward != 5 {
		t.Fatalf("degenerate range reward = %d, want 5", reward)
	}
}
