// Package app initializes all application components.
// app.go is the assembly point: it opens the snapshot store, builds the
// services and handlers and wires them into one Bot.
package app

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"card-collection-bot/internal/bot"
	"card-collection-bot/internal/config"
	"card-collection-bot/internal/features/admin"
	"card-collection-bot/internal/features/cards"
	"card-collection-bot/internal/features/drops"
	"card-collection-bot/internal/features/economy"
	"card-collection-bot/internal/features/games"
	"card-collection-bot/internal/features/rankings"
	"card-collection-bot/internal/features/shop"
	"card-collection-bot/internal/features/social"
	"card-collection-bot/internal/jobs"
	"card-collection-bot/internal/random"
	"card-collection-bot/internal/store"
)

// App holds all application components.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Store     *store.Store
	BotAPI    *tgbotapi.BotAPI
}

// New creates and initializes the application. Initialization order
// matters, components depend on each other.
func New(cfg *config.Config) (*App, error) {
	// === 1. Snapshot store ===
	st, err := store.Open(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	rng := random.Default()

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Authorized as @%s", botAPI.Self.UserName)

	// === 3. Services ===
	cardService := cards.NewService(st, rng)
	cardService.PruneInvalid()

	economyService := economy.NewService(st, rng,
		cfg.EconomyStartingBalance, cfg.DailyRewardMin, cfg.DailyRewardMax)
	gamesService := games.NewService(st, rng, cfg.EconomyStartingBalance)
	dropService := drops.NewService(st, rng,
		cfg.DropThresholdDefault, cfg.CatchWindow(), cfg.EconomyStartingBalance)
	shopService := shop.NewService(st, rng, cfg.EconomyStartingBalance)
	socialService := social.NewService(st, cfg.EconomyStartingBalance)
	rankingsService := rankings.NewService(st)
	adminService := admin.NewService(st, cardService, cfg.OwnerID)

	// === 4. Handlers ===
	economyHandler := economy.NewHandler(economyService, botAPI)
	gamesHandler := games.NewHandler(gamesService, botAPI)
	dropsHandler := drops.NewHandler(dropService, botAPI)
	shopHandler := shop.NewHandler(shopService, botAPI)
	socialHandler := social.NewHandler(socialService, botAPI)
	rankingsHandler := rankings.NewHandler(rankingsService, botAPI)
	cardsHandler := cards.NewHandler(cardService, botAPI)
	adminHandler := admin.NewHandler(adminService, dropService, botAPI, cfg.BackupFile)

	// === 5. Bot ===
	b := bot.New(
		botAPI, cfg,
		economyService, adminService,
		economyHandler, gamesHandler, dropsHandler, shopHandler,
		socialHandler, rankingsHandler, cardsHandler, adminHandler,
	)

	// === 6. Job scheduler ===
	scheduler := jobs.NewScheduler(st, cfg.BackupFile, cfg.BackupCronSpec)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Store:     st,
		BotAPI:    botAPI,
	}, nil
}
