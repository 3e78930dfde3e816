// handlers.go renders the admin commands and the media intake that
// finishes upload/restore conversations.
package admin

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/common"
	"card-collection-bot/internal/features/cards"
	"card-collection-bot/internal/features/drops"
	"card-collection-bot/internal/store"
)

const (
	notAdminText = "⛔ သင်သည် Admin မဟုတ်ပါ။"
	notOwnerText = "⛔ Owner သာ အသုံးပြုနိုင်ပါသည်။"

	clearConfirmCallback = "clear_confirm"
	clearCancelCallback  = "clear_cancel"

	// Pause between broadcast sends so Telegram's flood limits are not hit.
	broadcastPause = 50 * time.Millisecond
)

// Handler handles the owner/sudo commands.
type Handler struct {
	service    *Service
	drops      *drops.Service
	bot        *tgbotapi.BotAPI
	backupPath string
}

// NewHandler creates the admin handler.
func NewHandler(service *Service, dropService *drops.Service, bot *tgbotapi.BotAPI, backupPath string) *Handler {
	return &Handler{service: service, drops: dropService, bot: bot, backupPath: backupPath}
}

// HandleUpload arms an image card upload for the admin.
func (h *Handler) HandleUpload(chatID, userID int64) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	if err := h.service.BeginPending(userID, store.PendingImageCard); err != nil {
		log.WithError(err).Error("BeginPending failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}
	h.sendMessage(chatID,
		"📤 ကဒ်အသစ်တင်ရန်:\n"+
			"1️⃣ ဓာတ်ပုံပို့ပါ\n"+
			"2️⃣ Caption တွင်: name | movie | rarity ထည့်ပါ\n\n"+
			"ဥပမာ: Naruto | Naruto Shippuden | Legendary")
}

// HandleUploadVideo arms a video card upload for the admin.
func (h *Handler) HandleUploadVideo(chatID, userID int64) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	if err := h.service.BeginPending(userID, store.PendingVideoCard); err != nil {
		log.WithError(err).Error("BeginPending failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}
	h.sendMessage(chatID,
		"📤 Video ကဒ်တင်ရန်:\n"+
			"1️⃣ Video ပို့ပါ\n"+
			"2️⃣ Caption တွင်: name | movie ထည့်ပါ\n\n"+
			"(Rarity သည် Animated အဖြစ် အလိုအလျောက်သတ်မှတ်ပါမည်)")
}

// HandlePhoto finishes a pending image upload.
func (h *Handler) HandlePhoto(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if h.service.Pending(userID) != store.PendingImageCard {
		return
	}
	if msg.Caption == "" {
		h.sendMessage(msg.Chat.ID, "❌ Caption ထည့်ပါ: name | movie | rarity")
		return
	}
	if len(msg.Photo) == 0 {
		return
	}
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	nc, err := h.service.AddImageCard(userID, msg.Caption, fileID)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrBadCardFormat):
		h.sendMessage(msg.Chat.ID, "❌ Format မှား: name | movie | rarity")
		return
	case errors.Is(err, common.ErrUnknownRarity):
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("❌ Rarity မှား: %s", rarityNames()))
		return
	default:
		log.WithError(err).Error("AddImageCard failed")
		h.sendMessage(msg.Chat.ID, "❌ Error")
		return
	}

	tier, _ := cards.TierByName(nc.Card.Rarity)
	h.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"✅ ကဒ်အသစ်ထည့်ပြီး!\n\n🆔 ID: %s\n👤 Name: %s\n🎬 Movie: %s\n%s Rarity: %s",
		nc.ID, nc.Card.Name, nc.Card.Movie, tier.Emoji, nc.Card.Rarity,
	))
}

// HandleVideo finishes a pending video upload.
func (h *Handler) HandleVideo(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if h.service.Pending(userID) != store.PendingVideoCard {
		return
	}
	if msg.Caption == "" {
		h.sendMessage(msg.Chat.ID, "❌ Caption ထည့်ပါ: name | movie")
		return
	}
	if msg.Video == nil {
		return
	}

	nc, err := h.service.AddVideoCard(userID, msg.Caption, msg.Video.FileID)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrBadCardFormat):
		h.sendMessage(msg.Chat.ID, "❌ Format မှား: name | movie")
		return
	default:
		log.WithError(err).Error("AddVideoCard failed")
		h.sendMessage(msg.Chat.ID, "❌ Error")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"✅ Video ကဒ်ထည့်ပြီး!\n\n🆔 ID: %s\n👤 Name: %s\n🎬 Movie: %s\n✨ Rarity: Animated",
		nc.ID, nc.Card.Name, nc.Card.Movie,
	))
}

// HandleEdit renames a card: /edit <id> <name> <movie...>.
func (h *Handler) HandleEdit(chatID, userID int64, args []string) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	if len(args) < 3 {
		h.sendMessage(chatID, "❌ Format: /edit <id> <name> <movie>")
		return
	}
	cardID, name, movie := args[0], args[1], strings.Join(args[2:], " ")

	err := h.service.catalog.EditCard(cardID, name, movie)
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("✅ ကဒ် %s ကို ပြင်ဆင်ပြီး!", cardID))
	case errors.Is(err, common.ErrUnknownCard):
		h.sendMessage(chatID, "❌ ကဒ် ID မတွေ့ပါ")
	default:
		log.WithError(err).Error("EditCard failed")
		h.sendMessage(chatID, "❌ Error")
	}
}

// HandleDelete removes a card from the catalog: /delete <id>.
func (h *Handler) HandleDelete(chatID, userID int64, args []string) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Format: /delete <id>")
		return
	}
	cardID := args[0]

	err := h.service.catalog.DeleteCard(cardID)
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("✅ ကဒ် %s ကို ဖျက်ပြီး!", cardID))
	case errors.Is(err, common.ErrUnknownCard):
		h.sendMessage(chatID, "❌ ကဒ် ID မတွေ့ပါ")
	default:
		log.WithError(err).Error("DeleteCard failed")
		h.sendMessage(chatID, "❌ Error")
	}
}

// HandleSetDrop overrides the drop threshold for this chat.
func (h *Handler) HandleSetDrop(chatID, userID int64, chatTitle string, args []string) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	if len(args) != 1 {
		h.sendMessage(chatID, "❌ Format: /setdrop <number>")
		return
	}
	threshold, err := strconv.Atoi(args[0])
	if err != nil || threshold <= 0 {
		h.sendMessage(chatID, "❌ ကိန်းဂဏန်းထည့်ပါ")
		return
	}

	if err := h.drops.SetThreshold(chatID, chatTitle, threshold); err != nil {
		log.WithError(err).Error("SetThreshold failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Drop time ကို %d messages အဖြစ်သတ်မှတ်ပြီး!", threshold))
}

// HandleStats replies with totals and the busiest groups.
func (h *Handler) HandleStats(chatID, userID int64) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	stats := h.service.GetStats()

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Bot Statistics\n\n👥 Total Users: %d\n💬 Total Groups: %d\n🎴 Total Cards: %d\n\n🔝 Top 5 Groups:\n",
		stats.Users, stats.Groups, stats.Cards)
	for i, g := range stats.TopGroups {
		title := g.Title
		if title == "" {
			title = "Unknown"
		}
		fmt.Fprintf(&sb, "%d. %s - %d msgs\n", i+1, title, g.Messages)
	}
	h.sendMessage(chatID, sb.String())
}

// HandleBackup writes the snapshot and sends it as a document.
func (h *Handler) HandleBackup(chatID, userID int64) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	if err := h.service.Backup(h.backupPath); err != nil {
		log.WithError(err).Error("Backup failed")
		h.sendMessage(chatID, "❌ Backup Error")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(h.backupPath))
	doc.Caption = "✅ Backup အောင်မြင်ပါသည်!"
	if _, err := h.bot.Send(doc); err != nil {
		log.WithError(err).Error("Backup send failed")
		h.sendMessage(chatID, "❌ Backup Error")
	}
}

// HandleRestore arms a restore conversation; the next document the admin
// sends replaces the snapshot.
func (h *Handler) HandleRestore(chatID, userID int64) {
	if !h.requireSudo(chatID, userID) {
		return
	}
	if err := h.service.BeginPending(userID, store.PendingRestoreFile); err != nil {
		log.WithError(err).Error("BeginPending failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}
	h.sendMessage(chatID, "📥 Backup file ပို့ပါ")
}

// HandleDocument finishes a pending restore by downloading the document
// and swapping in the snapshot.
func (h *Handler) HandleDocument(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if h.service.Pending(userID) != store.PendingRestoreFile {
		return
	}
	if msg.Document == nil {
		return
	}

	if err := h.restoreFromDocument(userID, msg.Document.FileID); err != nil {
		log.WithError(err).Error("Restore failed")
		h.sendMessage(msg.Chat.ID, "❌ Restore Error")
		return
	}
	h.sendMessage(msg.Chat.ID, "✅ Data ပြန်ယူပြီး!")
}

func (h *Handler) restoreFromDocument(userID int64, fileID string) error {
	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return fmt.Errorf("get file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download backup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download backup: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "restore-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return h.service.Restore(userID, tmpPath)
}

// HandleAllClear asks the owner to confirm wiping everything.
func (h *Handler) HandleAllClear(chatID, userID int64) {
	if !h.requireOwner(chatID, userID) {
		return
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, Clear All", clearConfirmCallback),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", clearCancelCallback),
		),
	)
	msg := tgbotapi.NewMessage(chatID,
		"⚠️ သတိပေးချက်!\n\nData အားလုံးဖျက်မှာသေချာပါသလား?\nဒီလုပ်ဆောင်ချက်ကို နောက်ပြန်ပြင်၍မရပါ!")
	msg.ReplyMarkup = keyboard
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}

// HandleAddSudo grants admin rights to the replied-to user.
func (h *Handler) HandleAddSudo(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !h.requireOwner(chatID, msg.From.ID) {
		return
	}
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		h.sendMessage(chatID, "❌ User ကို Reply လုပ်ပါ")
		return
	}

	target := msg.ReplyToMessage.From
	added, err := h.service.AddSudo(target.ID)
	if err != nil {
		log.WithError(err).Error("AddSudo failed")
		h.sendMessage(chatID, "❌ Error")
		return
	}
	if !added {
		h.sendMessage(chatID, "❌ ဤ user သည် Admin ဖြစ်နေပြီးဖြစ်သည်")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ %s ကို Admin ခန့်ပြီး!", target.FirstName))
}

// HandleSudoList lists the granted sudo users.
func (h *Handler) HandleSudoList(chatID, userID int64) {
	if !h.requireOwner(chatID, userID) {
		return
	}

	ids := h.service.SudoList()
	if len(ids) == 0 {
		h.sendMessage(chatID, "📋 Admin များမရှိသေးပါ")
		return
	}

	var sb strings.Builder
	sb.WriteString("👥 Admin List:\n\n")
	for i, id := range ids {
		name := fmt.Sprintf("User ID: %d", id)
		if chat, err := h.bot.GetChat(tgbotapi.ChatInfoConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: id},
		}); err == nil && chat.FirstName != "" {
			name = fmt.Sprintf("%s (ID: %d)", chat.FirstName, id)
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, name)
	}
	h.sendMessage(chatID, sb.String())
}

// HandleBroadcast sends a message to every known group, pacing sends to
// stay under flood limits.
func (h *Handler) HandleBroadcast(chatID, userID int64, args []string) {
	if !h.requireOwner(chatID, userID) {
		return
	}
	if len(args) == 0 {
		h.sendMessage(chatID, "❌ Format: /broadcast <message>")
		return
	}
	text := strings.Join(args, " ")

	status, err := h.bot.Send(tgbotapi.NewMessage(chatID, "📢 Broadcasting..."))
	if err != nil {
		log.WithError(err).Error("Send failed")
		return
	}

	var success, failed int
	for _, groupID := range h.service.GroupIDs() {
		if _, err := h.bot.Send(tgbotapi.NewMessage(groupID, text)); err != nil {
			failed++
		} else {
			success++
		}
		time.Sleep(broadcastPause)
	}

	edit := tgbotapi.NewEditMessageText(chatID, status.MessageID, fmt.Sprintf(
		"📢 Broadcast ပြီးပါပြီ!\n\n✅ အောင်မြင်: %d\n❌ မအောင်မြင်: %d",
		success, failed,
	))
	if _, err := h.bot.Send(edit); err != nil {
		log.WithError(err).Error("Edit failed")
	}
}

// HandleCallback resolves the allclear confirmation buttons. Returns
// false when the callback data is not an admin callback.
func (h *Handler) HandleCallback(query *tgbotapi.CallbackQuery) bool {
	switch query.Data {
	case clearConfirmCallback:
		if !h.service.IsOwner(query.From.ID) {
			return true
		}
		if err := h.service.Reset(); err != nil {
			log.WithError(err).Error("Reset failed")
			h.editMessage(query, "❌ Error")
			return true
		}
		h.editMessage(query, "✅ Data အားလုံးဖျက်ပြီးပါပြီ!")
		return true
	case clearCancelCallback:
		h.editMessage(query, "❌ ဖျက်ခြင်းကို ပယ်ဖျက်ပြီးပါပြီ")
		return true
	}
	return false
}

func (h *Handler) requireSudo(chatID, userID int64) bool {
	if h.service.IsSudo(userID) {
		return true
	}
	h.sendMessage(chatID, notAdminText)
	return false
}

func (h *Handler) requireOwner(chatID, userID int64) bool {
	if h.service.IsOwner(userID) {
		return true
	}
	h.sendMessage(chatID, notOwnerText)
	return false
}

func rarityNames() string {
	names := make([]string, 0, len(cards.Tiers))
	for _, t := range cards.Tiers {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
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
