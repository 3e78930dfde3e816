// Package store — store.go implements load-on-start / save-on-mutation
// persistence for the snapshot. All mutation goes through Update, which
// serializes read-modify-write under one lock and writes the file with a
// temp-file-then-rename so a crash mid-write never corrupts the snapshot.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store is the single owner of the persisted State.
type Store struct {
	mu    sync.RWMutex
	path  string
	state *State
}

// Open loads the snapshot at path, or starts fresh when the file does not
// exist. Malformed entries are quarantined (dropped with a warning) rather
// than trusted; a file that does not parse at all is an error.
func Open(path string) (*Store, error) {
	s := &Store{path: path, state: NewState()}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.WithField("path", path).Info("No snapshot file, starting fresh")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	st := NewState()
	if err := json.Unmarshal(raw, st); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	dropped := st.normalize()
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("Quarantined malformed snapshot entries")
	}
	s.state = st

	log.WithFields(log.Fields{
		"cards":  len(st.Cards),
		"users":  len(st.Users),
		"groups": len(st.Groups),
	}).Info("Snapshot loaded")
	return s, nil
}

// Update runs fn with exclusive access to the state and, if fn succeeds,
// persists the snapshot. A persistence failure is logged and swallowed:
// the in-memory state stays authoritative and the next successful save
// closes the gap.
func (s *Store) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return err
	}
	if err := s.saveLocked(); err != nil {
		log.WithError(err).Error("Snapshot save failed, keeping in-memory state")
	}
	return nil
}

// View runs fn with shared read access to the state. fn must not mutate.
func (s *Store) View(fn func(st *State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Reset replaces the state with a fresh one and persists it.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = NewState()
	return s.saveLocked()
}

// SaveTo writes the current snapshot to an arbitrary path (backups).
func (s *Store) SaveTo(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return writeAtomic(path, s.state)
}

// ReplaceFromFile loads a snapshot from path (a restored backup), swaps it
// in and persists it to the primary file. The current state is kept on any
// failure.
func (s *Store) ReplaceFromFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read restore file: %w", err)
	}
	st := NewState()
	if err := json.Unmarshal(raw, st); err != nil {
		return fmt.Errorf("parse restore file: %w", err)
	}
	dropped := st.normalize()
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("Quarantined malformed entries in restore file")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	return writeAtomic(s.path, s.state)
}

// writeAtomic marshals the state into a sibling temp file and renames it
// over the target, so readers never observe a partial write.
func writeAtomic(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// normalize repairs the structural invariants of a freshly parsed state and
// quarantines entries that cannot be trusted. Returns the number of dropped
// entries.
func (st *State) normalize() int {
	dropped := 0

	if st.Cards == nil {
		st.Cards = make(map[string]*Card)
	}
	if st.Users == nil {
		st.Users = make(map[int64]*User)
	}
	if st.Groups == nil {
		st.Groups = make(map[int64]*Group)
	}
	if st.Pending == nil {
		st.Pending = make(map[int64]PendingAction)
	}

	for id, c := range st.Cards {
		if c == nil || c.Name == "" || c.FileID == "" {
			delete(st.Cards, id)
			dropped++
			continue
		}
		if c.Kind != MediaImage && c.Kind != MediaVideo {
			c.Kind = MediaImage
		}
	}

	for id, u := range st.Users {
		if u == nil {
			delete(st.Users, id)
			dropped++
			continue
		}
		if u.Cards == nil {
			u.Cards = make(map[string]int)
		}
		if u.Inventory == nil {
			u.Inventory = make(map[string]int)
		}
		for cardID, count := range u.Cards {
			if count <= 0 || st.Cards[cardID] == nil {
				delete(u.Cards, cardID)
				dropped++
			}
		}
		if u.Balance < 0 {
			u.Balance = 0
		}
		u.FavoriteCards = pruneFavorites(u)
	}

	for id, g := range st.Groups {
		if g == nil {
			delete(st.Groups, id)
			dropped++
			continue
		}
		if g.MessageCount < 0 {
			g.MessageCount = 0
		}
		if g.DropThreshold < 0 {
			g.DropThreshold = 0
		}
	}

	// Marriage references must be symmetric or cleared on both sides.
	for id, u := range st.Users {
		if u.MarriedTo == 0 {
			continue
		}
		partner := st.Users[u.MarriedTo]
		if partner == nil || partner.MarriedTo != id {
			u.MarriedTo = 0
			dropped++
		}
	}

	for id, p := range st.Pending {
		switch p {
		case PendingImageCard, PendingVideoCard, PendingRestoreFile:
		default:
			delete(st.Pending, id)
			dropped++
		}
	}

	return dropped
}

// pruneFavorites keeps the favorite list a ≤5-element subset of owned cards.
func pruneFavorites(u *User) []string {
	var kept []string
	seen := make(map[string]bool)
	for _, id := range u.FavoriteCards {
		if len(kept) == 5 {
			break
		}
		if seen[id] || !u.Owns(id) {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
	}
	return kept
}
