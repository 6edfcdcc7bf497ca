package bot

import (
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/makar2108/telegram-bot/config"
	"github.com/makar2108/telegram-bot/media"
)

// Sender is the slice of the Telegram API that delivery needs. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// Telegram caps media groups at 10 items.
const maxAlbumSize = 10

// Deliverer turns normalized assets into Telegram sends. One photo goes as a
// single photo message, 2-10 as one album, larger sets as consecutive albums
// of up to 10 with a pacing delay between batches. Document fallbacks are sent
// individually afterwards; a failed send is logged and never blocks the rest.
type Deliverer struct {
	sender      Sender
	groupPacing time.Duration
	docPacing   time.Duration
}

func NewDeliverer(sender Sender, cfg config.Config) *Deliverer {
	return &Deliverer{
		sender:      sender,
		groupPacing: cfg.GroupPacing(),
		docPacing:   cfg.DocumentPacing(),
	}
}

// DeliverPhotos sends every normalized asset to the chat and reports how many
// photos and fallback documents actually went through.
func (d *Deliverer) DeliverPhotos(chatID int64, items []media.Normalized) (sentPhotos, sentDocuments int) {
	var photos, fallbacks []media.Normalized
	for _, item := range items {
		if item.Document {
			fallbacks = append(fallbacks, item)
		} else {
			photos = append(photos, item)
		}
	}

	for i, batch := range partition(photos, maxAlbumSize) {
		if i > 0 {
			time.Sleep(d.groupPacing)
		}
		sentPhotos += d.sendBatch(chatID, batch)
	}

	for i, doc := range fallbacks {
		if i > 0 {
			time.Sleep(d.docPacing)
		}
		file := tgbotapi.FileBytes{Name: doc.Filename, Bytes: doc.Data}
		if _, err := d.sender.Send(tgbotapi.NewDocument(chatID, file)); err != nil {
			log.Printf("[Bot] document send failed for %s: %v", doc.Filename, err)
			continue
		}
		sentDocuments++
	}

	return sentPhotos, sentDocuments
}

// sendBatch delivers one album batch and returns how many photos it carried,
// or 0 when the send failed.
func (d *Deliverer) sendBatch(chatID int64, batch []media.Normalized) int {
	if len(batch) == 1 {
		file := tgbotapi.FileBytes{Name: batch[0].Filename, Bytes: batch[0].Data}
		if _, err := d.sender.Send(tgbotapi.NewPhoto(chatID, file)); err != nil {
			log.Printf("[Bot] photo send failed for %s: %v", batch[0].Filename, err)
			return 0
		}
		return 1
	}

	group := make([]interface{}, 0, len(batch))
	for _, item := range batch {
		file := tgbotapi.FileBytes{Name: item.Filename, Bytes: item.Data}
		group = append(group, tgbotapi.NewInputMediaPhoto(file))
	}
	if _, err := d.sender.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, group)); err != nil {
		log.Printf("[Bot] album of %d failed: %v", len(batch), err)
		return 0
	}
	return len(batch)
}

// partition splits items into consecutive chunks of at most size each,
// preserving order.
func partition(items []media.Normalized, size int) [][]media.Normalized {
	var chunks [][]media.Normalized
	for len(items) > 0 {
		n := size
		if len(items) < n {
			n = len(items)
		}
		chunks = append(chunks, items[:n])
		items = items[n:]
	}
	return chunks
}
