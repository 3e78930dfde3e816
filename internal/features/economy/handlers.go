// handlers.go renders the economy commands: /balance, /daily and the
// reply-based /givecoin transfer.
package economy

import (
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
)

// Handler handles economy commands.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates the economy handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleBalance replies with the user's balance and collection size.
func (h *Handler) HandleBalance(chatID, userID int64, firstName, username string) {
	if err := h.service.EnsureUser(userID, username); err != nil {
		log.WithError(err).Error("EnsureUser failed")
	}
	acc, err := h.service.GetAccount(userID)
	if err != nil {
		log.WithError(err).Error("GetAccount failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"💰 %s ၏ Account\n\n💵 Balance: %s Coins\n🎴 Cards: %d",
		firstName, common.FormatCoins(acc.Balance), acc.CardCount,
	))
}

// HandleDaily claims the daily reward or reports the remaining cooldown.
func (h *Handler) HandleDaily(chatID, userID int64, username string) {
	reward, remaining, err := h.service.ClaimDaily(userID, username)
	if err != nil {
		if errors.Is(err, common.ErrCooldownActive) {
			h.sendMessage(chatID, fmt.Sprintf("⏰ %s ပြန်လာပါ!", common.FormatCooldown(remaining)))
			return
		}
		log.WithError(err).Error("ClaimDaily failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("🎁 Daily Bonus: +%s Coins!", common.FormatCoins(reward)))
}

// HandleGiveCoin transfers coins to the replied-to user.
func (h *Handler) HandleGiveCoin(msg *tgbotapi.Message, args []string) {
	chatID := msg.Chat.ID

	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		h.sendMessage(chatID, "❌ User ကို Reply လုပ်ပါ")
		return
	}
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Format: /givecoin <amount>")
		return
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ ကိန်းဂဏန်းထည့်ပါ")
		return
	}

	sender := msg.From
	receiver := msg.ReplyToMessage.From
	if err := h.service.EnsureUser(sender.ID, sender.UserName); err != nil {
		log.WithError(err).Error("EnsureUser failed")
	}
	if err := h.service.EnsureUser(receiver.ID, receiver.UserName); err != nil {
		log.WithError(err).Error("EnsureUser failed")
	}

	err = h.service.Transfer(sender.ID, receiver.ID, amount)
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("✅ %s သို့ %s Coins လွှဲပြီး!",
			receiver.FirstName, common.FormatCoins(amount)))
	case errors.Is(err, common.ErrInvalidWager):
		h.sendMessage(chatID, "❌ ပမာဏ မှားနေပါသည်")
	case errors.Is(err, common.ErrSelfTransfer):
		h.sendMessage(chatID, "❌ ကိုယ့်ကိုယ်ကို လွှဲ၍မရပါ")
	case errors.Is(err, common.ErrInsufficientFunds):
		h.sendMessage(chatID, "❌ Coins မလုံလောက်ပါ")
	default:
		log.WithError(err).Error("Transfer failed")
		h.sendMessage(chatID, "❌ Error")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}
