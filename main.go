package main

// Application initialization only. The actual behaviour lives in packages:
//
// - config/   : settings file, thresholds, pacing, bot token
// - stats/    : per-user activity counters for the admin panel
// - fetch/    : HTTP client, header profiles, compressed-body handling
// - browser/  : headless browser session wrapper
// - extract/  : candidate-discovery waterfall and video search
// - sites/    : per-host media policies (CDN conventions, object scoping)
// - media/    : classification, size-capped download, JPEG normalization
// - bot/      : Telegram commands, menus, pipeline orchestration, delivery

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/makar2108/telegram-bot/bot"
	"github.com/makar2108/telegram-bot/config"
	"github.com/makar2108/telegram-bot/stats"
)

func main() {
	cfg := config.Load()

	token, err := config.BotToken()
	if err != nil {
		log.Fatalf("[Main] %v", err)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("[Main] failed to connect to Telegram: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mediaBot := bot.New(api, cfg, stats.NewStore())
	if err := mediaBot.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("[Main] bot stopped: %v", err)
	}
	log.Println("[Main] shutdown complete")
}
