// Package store owns the process-wide snapshot state: the card catalog,
// user accounts and group chat records. models.go describes the persisted
// shapes; every entity gets an explicit record type instead of the loose
// JSON the data file historically held.
package store

import "time"

// MediaKind tells the adapter how to deliver a card's media reference.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// PendingAction is the tagged upload state of an admin conversation.
// Exactly one admin flow may be pending per user at a time.
type PendingAction string

const (
	PendingNone        PendingAction = ""
	PendingImageCard   PendingAction = "image_card"
	PendingVideoCard   PendingAction = "video_card"
	PendingRestoreFile PendingAction = "restore_file"
)

// Card is one catalog entry. Immutable after creation except through the
// admin edit/delete commands.
type Card struct {
	Name      string    `json:"name"`
	Movie     string    `json:"movie"`
	Rarity    string    `json:"rarity"`
	FileID    string    `json:"file_id"`
	Kind      MediaKind `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// User is one account, created lazily on first interaction.
type User struct {
	Username string `json:"username"`
	// Cards maps card id → owned count (count ≥ 1 for present keys).
	Cards   map[string]int `json:"cards"`
	Balance int64          `json:"balance"`
	// LastDaily is nil until the first daily reward claim.
	LastDaily *time.Time `json:"last_daily"`
	// FavoriteCards holds at most 5 ids, each a key of Cards.
	FavoriteCards []string `json:"favorite_cards"`
	// Titles is append-only, in the order missions completed.
	Titles []string `json:"titles"`
	// MarriedTo is the partner's user id, 0 when unmarried. Symmetric:
	// if A points at B then B points at A.
	MarriedTo         int64          `json:"married_to,omitempty"`
	Inventory         map[string]int `json:"inventory"`
	CompletedMissions []string       `json:"completed_missions"`
}

// Owns reports whether the user owns at least one copy of the card.
func (u *User) Owns(cardID string) bool {
	return u.Cards[cardID] > 0
}

// TotalCards is the cumulative owned count (sum of copies, not distinct).
func (u *User) TotalCards() int {
	total := 0
	for _, n := range u.Cards {
		total += n
	}
	return total
}

// HasCompleted reports whether a mission id is already in the done set.
func (u *User) HasCompleted(missionID string) bool {
	for _, id := range u.CompletedMissions {
		if id == missionID {
			return true
		}
	}
	return false
}

// Group is the per-chat drop state, created lazily on first group message.
type Group struct {
	Title string `json:"title"`
	// MessageCount is the rolling counter, reset to 0 on every drop.
	MessageCount int        `json:"message_count"`
	LastDrop     *time.Time `json:"last_drop,omitempty"`
	// DropThreshold overrides the configured default when > 0.
	DropThreshold int `json:"drop_threshold,omitempty"`
}

// State is the full persisted snapshot. load(save(state)) must round-trip
// losslessly.
type State struct {
	Cards  map[string]*Card `json:"cards"`
	Users  map[int64]*User  `json:"users"`
	Groups map[int64]*Group `json:"groups"`
	// SudoUsers are admin user ids granted by the owner.
	SudoUsers []int64 `json:"sudo_users"`
	// Pending tracks per-admin upload/restore conversations.
	Pending map[int64]PendingAction `json:"pending_uploads"`
}

// NewState returns an empty snapshot with all collections initialized.
func NewState() *State {
	return &State{
		Cards:   make(map[string]*Card),
		Users:   make(map[int64]*User),
		Groups:  make(map[int64]*Group),
		Pending: make(map[int64]PendingAction),
	}
}

// EnsureUser returns the user record, creating it with the starting balance
// on first sight. The caller must hold the store write lock (i.e. run
// inside Update).
func (st *State) EnsureUser(userID int64, username string, startingBalance int64) *User {
	u, ok := st.Users[userID]
	if !ok {
		u = &User{
			Username:  username,
			Cards:     make(map[string]int),
			Balance:   startingBalance,
			Inventory: make(map[string]int),
		}
		st.Users[userID] = u
		return u
	}
	if username != "" {
		u.Username = username
	}
	return u
}

// EnsureGroup returns the group record, creating it on first sight.
func (st *State) EnsureGroup(chatID int64, title string) *Group {
	g, ok := st.Groups[chatID]
	if !ok {
		g = &Group{Title: title}
		st.Groups[chatID] = g
		return g
	}
	if title != "" {
		g.Title = title
	}
	return g
}

// IsSudo reports whether the user id is in the sudo list.
func (st *State) IsSudo(userID int64) bool {
	for _, id := range st.SudoUsers {
		if id == userID {
			return true
		}
	}
	return false
}
