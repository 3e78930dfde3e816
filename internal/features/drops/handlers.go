// handlers.go delivers drops into chats and renders catch attempts.
package drops

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/cards"
	"card-collection-bot/internal/store"
)

// Handler handles group messages and the /catch command.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates the drops handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleGroupMessage counts the message and, when a drop fires, sends the
// card's media with the catch prompt.
func (h *Handler) HandleGroupMessage(msg *tgbotapi.Message) {
	drop, err := h.service.HandleGroupMessage(msg.Chat.ID, msg.Chat.Title, msg.From.ID, msg.From.UserName)
	if err != nil {
		log.WithError(err).Error("HandleGroupMessage failed")
		return
	}
	if drop == nil {
		return
	}

	tier, _ := cards.TierByName(drop.Card.Rarity)
	caption := fmt.Sprintf(
		"🎴 ကဒ်ကျလာပြီ!\n\n%s %s\n🎬 %s\n\n📝 /catch %s ဖြင့် ဖမ်းပါ!",
		tier.Emoji, drop.Card.Name, drop.Card.Movie, drop.Card.Name,
	)

	var c tgbotapi.Chattable
	if drop.Card.Kind == store.MediaVideo {
		video := tgbotapi.NewVideo(drop.ChatID, tgbotapi.FileID(drop.Card.FileID))
		video.Caption = caption
		c = video
	} else {
		photo := tgbotapi.NewPhoto(drop.ChatID, tgbotapi.FileID(drop.Card.FileID))
		photo.Caption = caption
		c = photo
	}
	if _, err := h.bot.Send(c); err != nil {
		log.WithError(err).WithField("chat_id", drop.ChatID).Error("Drop send failed")
	}
}

// HandleCatch resolves a /catch <card name> attempt.
func (h *Handler) HandleCatch(chatID, userID int64, firstName, username string, args []string) {
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Format: /catch <card_name>")
		return
	}
	guess := strings.Join(args, " ")

	res, err := h.service.AttemptCatch(chatID, userID, username, guess)
	if err != nil {
		log.WithError(err).Error("AttemptCatch failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}

	switch res.Outcome {
	case OutcomeNoActiveDrop:
		h.sendMessage(chatID, "❌ ဖမ်းရန် ကဒ်မရှိပါ")
	case OutcomeWrongGuess:
		h.sendMessage(chatID, "❌ နာမည် မှားနေပါသည်")
	case OutcomeCaught:
		tier, _ := cards.TierByName(res.Card.Rarity)
		h.sendMessage(chatID, fmt.Sprintf(
			"✅ %s ဖမ်းရပြီ!\n\n%s %s\n💰 +%d Coins",
			firstName, tier.Emoji, res.Card.Name, res.Coins,
		))
		for _, m := range res.Completed {
			h.sendMessage(chatID, fmt.Sprintf(
				"🏆 Mission Complete!\n\n%s ရရှိပြီး!\n💰 Reward: %s Coins",
				m.Title, common.FormatCoins(m.Reward),
			))
		}
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}
