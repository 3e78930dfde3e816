// Package common — errors.go defines the sentinel errors shared by all
// feature modules. Handlers match them with errors.Is and turn them into
// user-facing replies; none of them is fatal.
package common

import "errors"

// Economy errors
var (
	// ErrInsufficientFunds — balance is lower than the requested amount
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidWager — bet or amount is zero or negative
	ErrInvalidWager = errors.New("amount must be positive")
	// ErrSelfTransfer — attempt to send coins to yourself
	ErrSelfTransfer = errors.New("cannot transfer coins to yourself")
	// ErrCooldownActive — daily reward claimed less than 24h ago
	ErrCooldownActive = errors.New("daily reward cooldown is active")
)

// Drop / catch errors
var (
	// ErrNoActiveDrop — no catch window open in this chat (or it expired)
	ErrNoActiveDrop = errors.New("no active drop in this chat")
	// ErrWrongGuess — the guess does not match the dropped card's name
	ErrWrongGuess = errors.New("wrong card name")
	// ErrCatalogEmpty — a drop fired but no cards exist yet
	ErrCatalogEmpty = errors.New("card catalog is empty")
)

// Referential errors
var (
	// ErrUnknownCard — card id not present in the catalog
	ErrUnknownCard = errors.New("card not found")
	// ErrUnknownUser — user has no record yet
	ErrUnknownUser = errors.New("user not found")
	// ErrUnknownRarity — rarity name not in the tier table
	ErrUnknownRarity = errors.New("unknown rarity")
	// ErrUnknownItem — shop item number out of range
	ErrUnknownItem = errors.New("unknown shop item")
)

// Collection errors
var (
	// ErrCardNotOwned — user tried to favorite a card they do not own
	ErrCardNotOwned = errors.New("card not owned")
	// ErrFavoritesFull — favorite list already holds 5 cards
	ErrFavoritesFull = errors.New("favorite list is full")
	// ErrAlreadyFavorite — card is already in the favorite list
	ErrAlreadyFavorite = errors.New("card is already a favorite")
	// ErrNotFavorite — card is not in the favorite list
	ErrNotFavorite = errors.New("card is not a favorite")
)

// Social errors
var (
	// ErrAlreadyMarried — one of the two users already has a partner
	ErrAlreadyMarried = errors.New("already married")
	// ErrNotMarried — divorce requested without a partner
	ErrNotMarried = errors.New("not married")
)

// Admin errors
var (
	// ErrNotSudo — user is neither the owner nor a sudo user
	ErrNotSudo = errors.New("not an admin")
	// ErrNotOwner — command is restricted to the bot owner
	ErrNotOwner = errors.New("owner only")
	// ErrBadCardFormat — upload caption does not parse
	ErrBadCardFormat = errors.New("bad card format")
)
