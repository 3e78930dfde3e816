// handlers.go renders /top, /titles and /missions.
package rankings

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
)

const topLimit = 10

// Handler handles the ranking commands.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler creates the rankings handler.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleTop lists the top collectors.
func (h *Handler) HandleTop(chatID int64) {
	entries := h.service.Top(topLimit)

	var sb strings.Builder
	sb.WriteString("🏆 Top 10 Collectors\n\n")
	for i, e := range entries {
		name := e.Username
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&sb, "%d. %s %s\n   🎴 %d cards\n\n",
			i+1, name, strings.Join(e.Titles, " "), e.CardCount)
	}
	h.sendMessage(chatID, sb.String())
}

// HandleTitles lists the user's earned titles.
func (h *Handler) HandleTitles(chatID, userID int64, firstName string) {
	titles, err := h.service.Titles(userID)
	if err != nil && !errors.Is(err, common.ErrUnknownUser) {
		log.WithError(err).Error("Titles failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}
	if len(titles) == 0 {
		h.sendMessage(chatID, "❌ ဘွဲ့များမရှိသေးပါ")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("👑 %s ၏ ဘွဲ့များ\n\n%s",
		firstName, strings.Join(titles, "\n")))
}

// HandleMissions shows mission progress for the user.
func (h *Handler) HandleMissions(chatID, userID int64) {
	rows, err := h.service.MissionProgress(userID)
	if err != nil && !errors.Is(err, common.ErrUnknownUser) {
		log.WithError(err).Error("MissionProgress failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}

	var sb strings.Builder
	sb.WriteString("🎯 Missions\n\n")
	for _, row := range rows {
		status := "⏳"
		if row.Done {
			status = "✅"
		}
		fmt.Fprintf(&sb, "%s %s\n   📊 %d/%d cards\n   🎁 %s Coins + %s\n\n",
			status, row.Mission.Name,
			row.Progress, row.Mission.Requirement,
			common.FormatCoins(row.Mission.Reward), row.Mission.Title)
	}
	h.sendMessage(chatID, sb.String())
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}
