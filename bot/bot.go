package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/makar2108/telegram-bot/config"
	"github.com/makar2108/telegram-bot/extract"
	"github.com/makar2108/telegram-bot/fetch"
	"github.com/makar2108/telegram-bot/media"
	"github.com/makar2108/telegram-bot/sites"
	"github.com/makar2108/telegram-bot/stats"
)

// Bot wires the Telegram update loop to the extraction and delivery pipeline.
type Bot struct {
	api       *tgbotapi.BotAPI
	deliverer *Deliverer
	cfg       config.Config
	store     *stats.Store
	client    *fetch.Client
	extractor *extract.Extractor
	startedAt time.Time
}

func New(api *tgbotapi.BotAPI, cfg config.Config, store *stats.Store) *Bot {
	client := fetch.NewClient(0)
	return &Bot{
		api:       api,
		deliverer: NewDeliverer(api, cfg),
		cfg:       cfg,
		store:     store,
		client:    client,
		extractor: extract.New(client, cfg),
		startedAt: time.Now(),
	}
}

// Run polls for updates until the context is cancelled. Each update is
// handled on its own goroutine so a slow page never blocks other users.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("[Bot] authorized as @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Bot] recovered from panic in update handler: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	if msg.Text == "" {
		return
	}
	b.handleContent(ctx, msg.Chat.ID, msg.From.ID, msg.Text)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.store.RecordActivity(msg.From.ID)
		reply := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
		reply.ReplyMarkup = mainMenu()
		b.send(reply)
	case "support":
		reply := tgbotapi.NewMessage(msg.Chat.ID, supportText)
		reply.ParseMode = tgbotapi.ModeMarkdown
		b.send(reply)
	case "admin":
		if msg.From.ID != b.cfg.AdminID {
			b.send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ Недостаточно прав."))
			return
		}
		reply := tgbotapi.NewMessage(msg.Chat.ID, "🛠 Панель администратора:")
		reply.ReplyMarkup = adminMenu()
		b.send(reply)
	default:
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Неизвестная команда. Отправьте /start."))
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("[Bot] callback ack failed: %v", err)
	}
	if query.Message == nil {
		return
	}

	chatID := query.Message.Chat.ID
	command := ParseCommand(query.Data)

	if (command == CommandAdminStats || command == CommandAdminStatus) && query.From.ID != b.cfg.AdminID {
		b.send(tgbotapi.NewMessage(chatID, "⛔ Недостаточно прав."))
		return
	}

	switch command {
	case CommandMainMenu:
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID, welcomeText, mainMenu())
		b.send(edit)
	case CommandSendHTML:
		b.send(tgbotapi.NewMessage(chatID,
			"📄 Откройте страницу в браузере, скопируйте её HTML-код (Ctrl+U → Ctrl+A → Ctrl+C) и отправьте его сообщением."))
	case CommandSupport:
		reply := tgbotapi.NewMessage(chatID, supportText)
		reply.ParseMode = tgbotapi.ModeMarkdown
		b.send(reply)
	case CommandAdminStats:
		counts := b.store.UserCounts()
		text := fmt.Sprintf("📊 *Статистика*\n\nЗа сутки: %d\nЗа неделю: %d\nВсего: %d\nОбработано запросов: %d",
			counts.Daily, counts.Weekly, counts.Total, b.store.Requests())
		reply := tgbotapi.NewMessage(chatID, text)
		reply.ParseMode = tgbotapi.ModeMarkdown
		b.send(reply)
	case CommandAdminStatus:
		uptime := time.Since(b.startedAt).Round(time.Second)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🚀 Бот работает. Аптайм: %s", uptime)))
	default:
		log.Printf("[Bot] unknown callback payload: %q", query.Data)
	}
}

// handleContent routes a non-command message: URLs go through the full page
// pipeline, anything else is treated as literal HTML.
func (b *Bot) handleContent(ctx context.Context, chatID, userID int64, text string) {
	b.store.RecordActivity(userID)
	b.store.RecordRequest()

	content := strings.TrimSpace(text)
	isURL := strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://")

	status := b.startLoading(chatID, "Обрабатываю запрос...")
	defer status.Stop()

	if isURL {
		b.handlePage(ctx, chatID, content, status)
		return
	}

	candidates := b.extractor.Extract(ctx, extract.Input{RawHTML: content})
	b.processPhotos(ctx, chatID, b.selectPhotoURLs(ctx, urlsOf(candidates)))
}

// handlePage runs the URL pipeline: direct video links are downloaded as-is,
// other pages get the video search first and the image waterfall after.
func (b *Bot) handlePage(ctx context.Context, chatID int64, pageURL string, status *loading) {
	if media.Classify(pageURL) == media.KindVideo {
		b.deliverVideoURL(ctx, chatID, pageURL, pageURL)
		return
	}

	status.SetText("Ищу видео на странице...")
	var photoFromVideoSearch string
	if result, ok := b.extractor.LocateVideo(ctx, pageURL); ok {
		if result.Kind == "video" {
			status.SetText("Скачиваю видео...")
			b.deliverVideoURL(ctx, chatID, result.URL, pageURL)
			return
		}
		photoFromVideoSearch = result.URL
	}

	status.SetText("Ищу фотографии...")
	candidates := urlsOf(b.extractor.Extract(ctx, extract.Input{URL: pageURL}))
	candidates = leadPhotoFirst(photoFromVideoSearch, candidates)

	candidates = sites.FilterCandidates(pageURL, candidates, b.cfg.StrictObjectScope)

	status.SetText("Скачиваю фотографии...")
	b.processPhotos(ctx, chatID, b.selectPhotoURLs(ctx, candidates))
}

// leadPhotoFirst puts the main photo found during the video search at the
// head of the candidate list. A duplicate discovered by the extractor is
// dropped so the photo is delivered exactly once.
func leadPhotoFirst(lead string, candidates []string) []string {
	if lead == "" {
		return candidates
	}
	merged := make([]string, 0, len(candidates)+1)
	merged = append(merged, lead)
	for _, c := range candidates {
		if c != lead {
			merged = append(merged, c)
		}
	}
	return merged
}

// selectPhotoURLs keeps the candidates that are actually photos. Recognized
// CDN media is trusted outright; everything else is classified by URL and,
// when that is inconclusive, probed over the network.
func (b *Bot) selectPhotoURLs(ctx context.Context, candidates []string) []string {
	photos := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if sites.IsCDNMedia(candidate) {
			photos = append(photos, candidate)
			continue
		}
		switch media.Classify(candidate) {
		case media.KindPhoto:
			photos = append(photos, candidate)
		case media.KindVideo:
			continue
		default:
			if media.ProbeImage(ctx, b.client, candidate) {
				photos = append(photos, candidate)
			}
		}
	}
	return photos
}

// processPhotos downloads, normalizes, and delivers the photo set.
func (b *Bot) processPhotos(ctx context.Context, chatID int64, photoURLs []string) {
	if len(photoURLs) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "😔 Медиафайлы не найдены. Попробуйте отправить HTML-код страницы."))
		return
	}

	var items []media.Normalized
	failures := 0
	for i, photoURL := range photoURLs {
		asset, err := media.Download(ctx, b.client, photoURL, fetch.ProfileFor(photoURL))
		if err != nil {
			log.Printf("[Bot] photo download failed for %s: %v", photoURL, err)
			failures++
			continue
		}
		if alt, ok := media.FetchAltFormat(ctx, b.client, photoURL); ok {
			asset.Bytes = alt
		}
		items = append(items, media.Normalize(asset, i+1))
	}

	if len(items) == 0 {
		b.send(tgbotapi.NewMessage(chatID, downloadFailureText(failures)))
		return
	}

	sentPhotos, sentDocuments := b.deliverer.DeliverPhotos(chatID, items)
	if sentPhotos == 0 && sentDocuments == 0 {
		b.send(tgbotapi.NewMessage(chatID, "😔 Не удалось отправить медиафайлы. Попробуйте ещё раз."))
		return
	}

	summary := fmt.Sprintf("✅ Отправлено фото: %d", sentPhotos)
	if sentDocuments > 0 {
		summary += fmt.Sprintf("\n📎 Отправлено файлами: %d", sentDocuments)
	}
	if failures > 0 {
		summary += fmt.Sprintf("\n⚠️ Не удалось скачать: %d", failures)
	}
	b.send(tgbotapi.NewMessage(chatID, summary))
}

// deliverVideoURL downloads a located video and hands it to the deliverer.
func (b *Bot) deliverVideoURL(ctx context.Context, chatID int64, videoURL, referer string) {
	asset, err := media.Download(ctx, b.client, videoURL, fetch.VideoProfile(referer))
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, downloadErrorText(err)))
		return
	}
	if err := b.deliverer.DeliverVideo(chatID, asset); err != nil {
		log.Printf("[Bot] video delivery failed: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "😔 Не удалось отправить видео. Попробуйте ещё раз."))
	}
}

// downloadErrorText maps a download error kind to the user-facing message.
func downloadErrorText(err error) string {
	switch {
	case errors.Is(err, media.ErrAuthRequired):
		return "🔒 Для скачивания требуется авторизация на сайте."
	case errors.Is(err, media.ErrForbidden):
		return "⛔ Сайт запретил доступ к этому файлу."
	case errors.Is(err, media.ErrNotFound):
		return "🔍 Файл не найден (404)."
	case errors.Is(err, media.ErrTooLarge):
		return "⚠️ Файл больше 50 МБ — Telegram не позволяет отправить его."
	case errors.Is(err, media.ErrTimeout):
		return "⏱ Время ожидания истекло. Попробуйте позже."
	default:
		return "😔 Не удалось скачать файл. Попробуйте позже."
	}
}

func downloadFailureText(failures int) string {
	if failures > 0 {
		return fmt.Sprintf("😔 Не удалось скачать медиафайлы (%d ошибок). Попробуйте позже.", failures)
	}
	return "😔 Медиафайлы не найдены. Попробуйте отправить HTML-код страницы."
}

func urlsOf(candidates []extract.Candidate) []string {
	urls := make([]string, 0, len(candidates))
	for _, c := range candidates {
		urls = append(urls, c.URL)
	}
	return urls
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("[Bot] send failed: %v", err)
	}
}
