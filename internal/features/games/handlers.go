// handlers.go renders the mini-game commands: /slots, /basket, /wheel.
package games

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
)

// Handler handles the wager commands.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates the games handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleSlots plays one slots spin for the given bet.
func (h *Handler) HandleSlots(chatID, userID int64, username string, args []string) {
	bet, ok := h.parseBet(chatID, "/slots", args)
	if !ok {
		return
	}

	res, err := h.service.PlaySlots(userID, username, bet)
	if err != nil {
		h.sendWagerError(chatID, err)
		return
	}

	reels := strings.Join(res.Symbols[:], " ")
	if res.Win {
		h.sendMessage(chatID, fmt.Sprintf("🎰 %s\n\n🎉 သင်နိုင်ပြီ! +%s Coins!",
			reels, common.FormatCoins(res.Payout)))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🎰 %s\n\n😢 ရှုံးပါသည်! -%s Coins",
		reels, common.FormatCoins(bet)))
}

// HandleBasket plays one basket throw for the given bet.
func (h *Handler) HandleBasket(chatID, userID int64, username string, args []string) {
	bet, ok := h.parseBet(chatID, "/basket", args)
	if !ok {
		return
	}

	res, err := h.service.PlayBasket(userID, username, bet)
	if err != nil {
		h.sendWagerError(chatID, err)
		return
	}

	if res.Scored {
		h.sendMessage(chatID, fmt.Sprintf("🏀 သွင်းပြီး! +%s Coins!", common.FormatCoins(res.Payout)))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🏀 လွဲသွားပြီ! -%s Coins", common.FormatCoins(bet)))
}

// HandleWheel plays one wheel spin for the given bet.
func (h *Handler) HandleWheel(chatID, userID int64, username string, args []string) {
	bet, ok := h.parseBet(chatID, "/wheel", args)
	if !ok {
		return
	}

	res, err := h.service.PlayWheel(userID, username, bet)
	if err != nil {
		h.sendWagerError(chatID, err)
		return
	}

	if res.Multiplier == 0 {
		h.sendMessage(chatID, fmt.Sprintf("🎡 Wheel: 0x\n😢 ရှုံးပါသည်! -%s Coins", common.FormatCoins(bet)))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🎡 Wheel: %gx\n🎉 +%s Coins!",
		res.Multiplier, common.FormatCoins(res.Payout)))
}

func (h *Handler) parseBet(chatID int64, cmd string, args []string) (int64, bool) {
	if len(args) != 1 {
		h.sendMessage(chatID, fmt.Sprintf("❌ Format: %s <amount>", cmd))
		return 0, false
	}
	bet, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ ကိန်းဂဏန်းထည့်ပါ")
		return 0, false
	}
	return bet, true
}

func (h *Handler) sendWagerError(chatID int64, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidWager):
		h.sendMessage(chatID, "❌ ပမာဏ မှားနေပါသည်")
	case errors.Is(err, common.ErrInsufficientFunds):
		h.sendMessage(chatID, "❌ Coins မလုံလောက်ပါ")
	default:
		log.WithError(err).Error("Wager failed")
		h.sendMessage(chatID, "❌ Error")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}
