// Package shop sells items for coins. The only item with mechanics is the
// card pack, which opens into five uniform catalog draws; the rest land in
// the buyer's inventory.
package shop

import (
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/cards"
	"card-collection-bot/internal/features/economy"
	"card-collection-bot/internal/random"
	"card-collection-bot/internal/store"
)

// Item is one shop entry.
type Item struct {
	Name  string
	Price int64
	Kind  string
}

// Item kinds.
const (
	KindPack     = "pack"
	KindBooster  = "booster"
	KindUpgrade  = "upgrade"
	KindSelector = "selector"
)

// PackSize is how many cards a pack opens into.
const PackSize = 5

// Items is the fixed shop inventory, in display order.
var Items = []Item{
	{Name: "🎁 Card Pack (5 Random)", Price: 500, Kind: KindPack},
	{Name: "💰 Coin Booster (2x Daily)", Price: 1000, Kind: KindBooster},
	{Name: "🔮 Rarity Upgrade Token", Price: 2000, Kind: KindUpgrade},
	{Name: "🎯 Specific Card Selector", Price: 5000, Kind: KindSelector},
}

// PackCard is one card pulled from a pack.
type PackCard struct {
	ID   string
	Card store.Card
}

// Purchase is the result of a successful buy.
type Purchase struct {
	Item Item
	// Cards is non-nil only for pack purchases.
	Cards []PackCard
}

// Service handles shop purchases.
type Service struct {
	store           *store.Store
	rng             random.Source
	startingBalance int64
}

// NewService creates the shop service.
func NewService(st *store.Store, rng random.Source, startingBalance int64) *Service {
	return &Service{store: st, rng: rng, startingBalance: startingBalance}
}

// Buy purchases item number itemNum (1-based, as displayed). Affordability
// is checked by the debit itself, so a failed purchase mutates nothing.
func (s *Service) Buy(userID int64, username string, itemNum int) (*Purchase, error) {
	if itemNum < 1 || itemNum > len(Items) {
		return nil, common.ErrUnknownItem
	}
	item := Items[itemNum-1]

	purchase := &Purchase{Item: item}
	err := s.store.Update(func(st *store.State) error {
		if item.Kind == KindPack && len(st.Cards) == 0 {
			return common.ErrCatalogEmpty
		}

		u := st.EnsureUser(userID, username, s.startingBalance)
		if err := economy.Debit(u, item.Price); err != nil {
			return err
		}

		if item.Kind != KindPack {
			u.Inventory[item.Kind]++
			return nil
		}

		for i := 0; i < PackSize; i++ {
			id, card, ok := cards.PickUniform(st, s.rng)
			if !ok {
				break
			}
			u.Cards[id]++
			purchase.Cards = append(purchase.Cards, PackCard{ID: id, Card: *card})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"item":    item.Kind,
		"price":   item.Price,
	}).Info("Shop purchase")
	return purchase, nil
}
