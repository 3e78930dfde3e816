// handlers.go renders /shop and /buy.
package shop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/cards"
)

// Handler handles shop commands.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates the shop handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleShop lists the shop inventory.
func (h *Handler) HandleShop(chatID int64) {
	var sb strings.Builder
	sb.WriteString("🏪 Shop\n\n")
	for i, item := range Items {
		fmt.Fprintf(&sb, "%d. %s\n   💰 %s Coins\n\n", i+1, item.Name, common.FormatCoins(item.Price))
	}
	sb.WriteString("📝 /buy <item_number> ဖြင့် ဝယ်ပါ")
	h.sendMessage(chatID, sb.String())
}

// HandleBuy purchases an item by its displayed number.
func (h *Handler) HandleBuy(chatID, userID int64, username string, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Format: /buy <item_number>")
		return
	}
	itemNum, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendMessage(chatID, "❌ နံပါတ် ထည့်ပါ")
		return
	}

	purchase, err := h.service.Buy(userID, username, itemNum)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrUnknownItem):
		h.sendMessage(chatID, "❌ ပစ္စည်း နံပါတ် မှားနေပါသည်")
		return
	case errors.Is(err, common.ErrInsufficientFunds):
		h.sendMessage(chatID, "❌ Coins မလုံလောက်ပါ")
		return
	case errors.Is(err, common.ErrCatalogEmpty):
		h.sendMessage(chatID, "❌ ကဒ်မရှိသေးပါ")
		return
	default:
		log.WithError(err).Error("Buy failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}

	if purchase.Item.Kind != KindPack {
		h.sendMessage(chatID, fmt.Sprintf("✅ %s ဝယ်ပြီး!", purchase.Item.Name))
		return
	}

	var sb strings.Builder
	sb.WriteString("🎁 Pack ဖွင့်ပြီး!\n\n")
	for _, pc := range purchase.Cards {
		tier, _ := cards.TierByName(pc.Card.Rarity)
		fmt.Fprintf(&sb, "%s %s\n", tier.Emoji, pc.Card.Name)
	}
	h.sendMessage(chatID, sb.String())
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}
