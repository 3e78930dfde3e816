// handlers.go renders /marry (inline proposal), /divorce and the
// marriage callback buttons.
package social

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
)

const (
	acceptPrefix    = "marry_accept_"
	declineCallback = "marry_decline"
)

// Handler handles marriage commands and callbacks.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates the social handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleMarry sends a proposal with Accept/Decline buttons to the
// replied-to user.
func (h *Handler) HandleMarry(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		h.sendMessage(chatID, "❌ User ကို Reply လုပ်ပါ")
		return
	}

	proposer := msg.From
	partner := msg.ReplyToMessage.From
	if proposer.ID == partner.ID {
		h.sendMessage(chatID, "❌ ကိုယ့်ကိုယ်ကို လက်ထပ်၍မရပါ")
		return
	}

	err := h.service.CanMarry(proposer.ID, partner.ID, proposer.UserName, partner.UserName)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyMarried) {
			h.sendMessage(chatID, "❌ လက်ထပ်ပြီးသားဖြစ်သည်")
			return
		}
		log.WithError(err).Error("CanMarry failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💍 Accept",
				fmt.Sprintf("%s%d", acceptPrefix, proposer.ID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Decline", declineCallback),
		),
	)
	proposal := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"💝 %s က %s ကို လက်ထပ်ချင်နေပါသည်!",
		proposer.FirstName, partner.FirstName,
	))
	proposal.ReplyMarkup = keyboard
	if _, err := h.bot.Send(proposal); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}

// HandleDivorce dissolves the caller's marriage.
func (h *Handler) HandleDivorce(chatID, userID int64, username string) {
	_, err := h.service.Divorce(userID)
	switch {
	case err == nil:
		h.sendMessage(chatID, "💔 ကွာရှင်းပြီးပါပြီ")
	case errors.Is(err, common.ErrNotMarried), errors.Is(err, common.ErrUnknownUser):
		h.sendMessage(chatID, "❌ သင်လက်ထပ်ထားခြင်းမရှိပါ")
	default:
		log.WithError(err).Error("Divorce failed")
		h.sendMessage(chatID, "❌ Error")
	}
}

// HandleCallback resolves the proposal buttons. Returns false when the
// callback data is not a marriage callback.
func (h *Handler) HandleCallback(query *tgbotapi.CallbackQuery) bool {
	data := query.Data
	switch {
	case strings.HasPrefix(data, acceptPrefix):
		proposerID, err := strconv.ParseInt(strings.TrimPrefix(data, acceptPrefix), 10, 64)
		if err != nil {
			log.WithField("data", data).Warn("Malformed marriage callback")
			return true
		}
		if err := h.service.Accept(proposerID, query.From.ID); err != nil {
			h.editMessage(query, "❌ လက်ထပ်၍မရတော့ပါ")
			return true
		}
		h.editMessage(query, "💍 လက်ထပ်ပြီးပါပြီ! ဂုဏ်ယူပါတယ်!")
		return true
	case data == declineCallback:
		h.editMessage(query, "💔 လက်မထပ်ပါ")
		return true
	}
	return false
}

func (h *Handler) editMessage(query *tgbotapi.CallbackQuery, text string) {
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	if _, err := h.bot.Send(edit); err != nil {
		log.WithError(err).Error("Edit failed")
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}
