// favorites.go — the per-user favorite list: at most 5 cards, each of
// which the user must own.
package cards

import (
	"card-collection-bot/internal/common"
	"card-collection-bot/internal/store"
)

const maxFavorites = 5

// SetFavorite adds an owned card to the user's favorite list.
func (s *Service) SetFavorite(userID int64, cardID string) error {
	return s.store.Update(func(st *store.State) error {
		u, ok := st.Users[userID]
		if !ok {
			return common.ErrUnknownUser
		}
		if !u.Owns(cardID) {
			return common.ErrCardNotOwned
		}
		for _, id := range u.FavoriteCards {
			if id == cardID {
				return common.ErrAlreadyFavorite
			}
		}
		if len(u.FavoriteCards) >= maxFavorites {
			return common.ErrFavoritesFull
		}
		u.FavoriteCards = append(u.FavoriteCards, cardID)
		return nil
	})
}

// RemoveFavorite removes a card from the user's favorite list.
func (s *Service) RemoveFavorite(userID int64, cardID string) error {
	return s.store.Update(func(st *store.State) error {
		u, ok := st.Users[userID]
		if !ok {
			return common.ErrUnknownUser
		}
		for i, id := range u.FavoriteCards {
			if id == cardID {
				u.FavoriteCards = append(u.FavoriteCards[:i], u.FavoriteCards[i+1:]...)
				return nil
			}
		}
		return common.ErrNotFavorite
	})
}
