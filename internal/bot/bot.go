// Package bot holds the main bot module: initialization, update loop
// and command routing.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/bot/middleware"
	"card-collection-bot/internal/config"
	"card-collection-bot/internal/features/admin"
	"card-collection-bot/internal/features/cards"
	"card-collection-bot/internal/features/drops"
	"card-collection-bot/internal/features/economy"
	"card-collection-bot/internal/features/games"
	"card-collection-bot/internal/features/rankings"
	"card-collection-bot/internal/features/shop"
	"card-collection-bot/internal/features/social"
)

// Bot ties all components together.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	rateLimiter *middleware.RateLimiter

	economyService *economy.Service
	adminService   *admin.Service

	economyHandler  *economy.Handler
	gamesHandler    *games.Handler
	dropsHandler    *drops.Handler
	shopHandler     *shop.Handler
	socialHandler   *social.Handler
	rankingsHandler *rankings.Handler
	cardsHandler    *cards.Handler
	adminHandler    *admin.Handler

	parser *CommandParser

	// caps concurrent update handling
	inflight chan struct{}
}

// New creates the bot with all its dependencies.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	economyService *economy.Service,
	adminService *admin.Service,
	economyHandler *economy.Handler,
	gamesHandler *games.Handler,
	dropsHandler *drops.Handler,
	shopHandler *shop.Handler,
	socialHandler *social.Handler,
	rankingsHandler *rankings.Handler,
	cardsHandler *cards.Handler,
	adminHandler *admin.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:             api,
		cfg:             cfg,
		rateLimiter:     middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		economyService:  economyService,
		adminService:    adminService,
		economyHandler:  economyHandler,
		gamesHandler:    gamesHandler,
		dropsHandler:    dropsHandler,
		shopHandler:     shopHandler,
		socialHandler:   socialHandler,
		rankingsHandler: rankingsHandler,
		cardsHandler:    cardsHandler,
		adminHandler:    adminHandler,
		parser:          NewCommandParser(),
		inflight:        make(chan struct{}, maxInFlight),
	}
}

// Start runs the long polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Bot stopping (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Updates channel closed, bot stopped")
				return
			}

			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(upd)
			}(update)
		}
	}
}

// handleUpdate processes a single Telegram update.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}

	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	middleware.LogMessage(message)

	// Media intake finishes pending admin conversations.
	if len(message.Photo) > 0 {
		b.adminHandler.HandlePhoto(message)
		return
	}
	if message.Video != nil {
		b.adminHandler.HandleVideo(message)
		return
	}
	if message.Document != nil {
		b.adminHandler.HandleDocument(message)
		return
	}

	if message.Text == "" {
		return
	}

	userID := message.From.ID
	if !b.rateLimiter.Allow(userID) {
		log.WithField("user_id", userID).Debug("rate limited")
		return
	}

	if err := b.economyService.EnsureUser(userID, message.From.UserName); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureUser failed")
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if isCommand {
		b.routeCommand(message, cmd, args)
		return
	}

	// Plain group chatter feeds the drop counter.
	if message.Chat.IsGroup() || message.Chat.IsSuperGroup() {
		b.dropsHandler.HandleGroupMessage(message)
	}
}

// handleCallback dispatches inline keyboard callbacks.
func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	defer middleware.RecoverFromPanic()

	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.WithError(err).Debug("Callback ack failed")
	}

	if b.socialHandler.HandleCallback(query) {
		return
	}
	if b.adminHandler.HandleCallback(query) {
		return
	}
	log.WithField("data", query.Data).Debug("Unhandled callback")
}

// routeCommand routes a parsed command to its handler.
func (b *Bot) routeCommand(message *tgbotapi.Message, cmd string, args []string) {
	chatID := message.Chat.ID
	userID := message.From.ID
	firstName := message.From.FirstName
	username := message.From.UserName

	switch cmd {
	case "start":
		b.sendMessage(chatID, fmt.Sprintf(
			"👋 မင်္ဂလာပါ %s!\n\n🎴 Card Collection Bot မှ ကြိုဆိုပါသည်\n\n"+
				"📝 /help - Command များကြည့်ရန်\n💰 /balance - လက်ကျန်ငွေ\n"+
				"🎁 /daily - နေ့စဉ် Bonus\n🏪 /shop - ဆိုင်ကြည့်ရန်", firstName))

	case "help":
		b.sendMessage(chatID, b.helpText(userID))

	// Economy
	case "balance":
		b.economyHandler.HandleBalance(chatID, userID, firstName, username)
	case "daily":
		b.economyHandler.HandleDaily(chatID, userID, username)
	case "givecoin":
		b.economyHandler.HandleGiveCoin(message, args)

	// Shop
	case "shop":
		b.shopHandler.HandleShop(chatID)
	case "buy":
		b.shopHandler.HandleBuy(chatID, userID, username, args)

	// Games
	case "slots":
		b.gamesHandler.HandleSlots(chatID, userID, username, args)
	case "basket":
		b.gamesHandler.HandleBasket(chatID, userID, username, args)
	case "wheel":
		b.gamesHandler.HandleWheel(chatID, userID, username, args)

	// Cards
	case "catch":
		b.dropsHandler.HandleCatch(chatID, userID, firstName, username, args)
	case "set":
		b.cardsHandler.HandleSetFavorite(chatID, userID, args)
	case "removeset":
		b.cardsHandler.HandleRemoveFavorite(chatID, userID, args)

	// Social
	case "marry":
		b.socialHandler.HandleMarry(message)
	case "divorce":
		b.socialHandler.HandleDivorce(chatID, userID, username)
	case "trade":
		if message.ReplyToMessage == nil {
			b.sendMessage(chatID, "❌ User ကို Reply လုပ်ပါ")
			return
		}
		b.sendMessage(chatID, "🔄 Trade system ကို မကြာမီ ထည့်သွင်းပါမည်")
	case "fusion":
		b.sendMessage(chatID, "⚗️ Fusion system ကို မကြာမီ ထည့်သွင်းပါမည်")
	case "duel":
		b.sendMessage(chatID, "⚔️ Duel system ကို မကြာမီ ထည့်သွင်းပါမည်")

	// Rankings
	case "top":
		b.rankingsHandler.HandleTop(chatID)
	case "titles":
		b.rankingsHandler.HandleTitles(chatID, userID, firstName)
	case "missions":
		b.rankingsHandler.HandleMissions(chatID, userID)

	// Admin
	case "upload":
		b.adminHandler.HandleUpload(chatID, userID)
	case "uploadvd":
		b.adminHandler.HandleUploadVideo(chatID, userID)
	case "edit":
		b.adminHandler.HandleEdit(chatID, userID, args)
	case "delete":
		b.adminHandler.HandleDelete(chatID, userID, args)
	case "setdrop":
		b.adminHandler.HandleSetDrop(chatID, userID, message.Chat.Title, args)
	case "stats":
		b.adminHandler.HandleStats(chatID, userID)
	case "backup":
		b.adminHandler.HandleBackup(chatID, userID)
	case "restore":
		b.adminHandler.HandleRestore(chatID, userID)
	case "allclear":
		b.adminHandler.HandleAllClear(chatID, userID)

	// Owner
	case "addsudo":
		b.adminHandler.HandleAddSudo(message)
	case "sudolist":
		b.adminHandler.HandleSudoList(chatID, userID)
	case "broadcast":
		b.adminHandler.HandleBroadcast(chatID, userID, args)
	}
}

// helpText builds the command list, appending admin and owner sections
// for users who can run them.
func (b *Bot) helpText(userID int64) string {
	var sb strings.Builder
	sb.WriteString(`🎴 Card Collection Bot Commands

👤 User Commands:
💰 /balance - လက်ကျန်ငွေစစ်ရန်
🎁 /daily - နေ့စဉ် Bonus
🏪 /shop - ဆိုင်ဖွင့်ရန်
🛒 /buy <number> - ပစ္စည်းဝယ်ရန်

🎮 Games:
🎰 /slots <amount> - Slot ကစားရန်
🏀 /basket <amount> - Basketball
🎡 /wheel <amount> - Wheel ကစားရန်

🎴 Cards:
📥 /catch <name> - ကဒ်ဖမ်းရန်
⭐ /set <id> - Favorite သတ်မှတ်ရန်
❌ /removeset <id> - Favorite ဖယ်ရန်

👥 Social:
💵 /givecoin <amount> - Coin လွှဲရန်
💍 /marry - လက်ထပ်ရန် (Reply)
💔 /divorce - ကွာရှင်းရန်

📊 Rankings:
🏆 /top - Top 10 ကြည့်ရန်
👑 /titles - ဘွဲ့များ
🎯 /missions - Mission များ
`)

	if b.adminService.IsSudo(userID) {
		sb.WriteString(`
🛠 Admin Commands:
📤 /upload - ကဒ်တင်ရန်
📹 /uploadvd - Video ကဒ်
✏️ /edit <id> <name> <movie>
🗑 /delete <id>
⚙️ /setdrop <number>
📊 /stats
💾 /backup
📥 /restore
`)
	}

	if b.adminService.IsOwner(userID) {
		sb.WriteString(`
👑 Owner Commands:
👤 /addsudo (Reply)
📋 /sudolist
📢 /broadcast <message>
🗑 /allclear
`)
	}

	return sb.String()
}

// sendMessage is the plain-text send helper.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Send failed")
	}
}

// CommandParser splits "/command arg..." text, tolerating the
// "@botname" suffix Telegram appends in groups.
type CommandParser struct{}

// NewCommandParser creates the command parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// ParseCommand splits text into a command and its arguments.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	return command, args, true
}
