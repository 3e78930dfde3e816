// handlers.go renders the favorite commands: /set and /removeset.
package cards

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
)

// Handler handles the card favorite commands.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates the cards handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleSetFavorite marks an owned card as a favorite.
func (h *Handler) HandleSetFavorite(chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Format: /set <card_id>")
		return
	}

	err := h.service.SetFavorite(userID, args[0])
	switch {
	case err == nil:
		h.sendMessage(chatID, "✅ Favorite ကဒ်အဖြစ်သတ်မှတ်ပြီး!")
	case errors.Is(err, common.ErrCardNotOwned), errors.Is(err, common.ErrUnknownUser):
		h.sendMessage(chatID, "❌ သင့်တွင် ဤကဒ်မရှိပါ")
	case errors.Is(err, common.ErrAlreadyFavorite):
		h.sendMessage(chatID, "❌ ဤကဒ်သည် Favorite တွင်ရှိပြီးသား")
	case errors.Is(err, common.ErrFavoritesFull):
		h.sendMessage(chatID, "❌ Favorite ကဒ် 5 ခုအပြည့်ရှိနေပြီ")
	default:
		log.WithError(err).Error("SetFavorite failed")
		h.sendMessage(chatID, "❌ Error")
	}
}

// HandleRemoveFavorite removes a card from the favorite list.
func (h *Handler) HandleRemoveFavorite(chatID, userID int64, args []string) {
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Format: /removeset <card_id>")
		return
	}

	err := h.service.RemoveFavorite(userID, args[0])
	switch {
	case err == nil:
		h.sendMessage(chatID, "✅ Favorite မှ ဖယ်ရှားပြီး!")
	case errors.Is(err, common.ErrNotFavorite), errors.Is(err, common.ErrUnknownUser):
		h.sendMessage(chatID, "❌ ဤကဒ်သည် Favorite တွင်မရှိပါ")
	default:
		log.WithError(err).Error("RemoveFavorite failed")
		h.sendMessage(chatID, "❌ Error")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}
