package bot

import (
	"log"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var loadingFrames = []string{"⏳", "🕒", "🕓", "🕔"}

const loadingFrameInterval = 800 * time.Millisecond

// loading is a status message animated by editing it in place while a request
// is being processed. Stop deletes the message; calling it twice is safe.
type loading struct {
	api       *tgbotapi.BotAPI
	chatID    int64
	messageID int
	done      chan struct{}
	once      sync.Once

	mu   sync.Mutex
	text string
}

// startLoading posts the animated status message. A nil return means the
// message could not be posted; Stop on nil is a no-op for the caller's
// convenience.
func (b *Bot) startLoading(chatID int64, text string) *loading {
	msg, err := b.api.Send(tgbotapi.NewMessage(chatID, loadingFrames[0]+" "+text))
	if err != nil {
		log.Printf("[Bot] could not post loading message: %v", err)
		return nil
	}

	l := &loading{
		api:       b.api,
		chatID:    chatID,
		messageID: msg.MessageID,
		text:      text,
		done:      make(chan struct{}),
	}
	go l.animate()
	return l
}

func (l *loading) animate() {
	ticker := time.NewTicker(loadingFrameInterval)
	defer ticker.Stop()

	frame := 1
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			edit := tgbotapi.NewEditMessageText(l.chatID, l.messageID,
				loadingFrames[frame%len(loadingFrames)]+" "+l.currentText())
			if _, err := l.api.Send(edit); err != nil {
				// Editing a deleted message fails permanently, stop animating.
				return
			}
			frame++
		}
	}
}

// SetText switches the status line, keeping the animation running.
func (l *loading) SetText(text string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

func (l *loading) currentText() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

// Stop ends the animation and deletes the status message.
func (l *loading) Stop() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		close(l.done)
		if _, err := l.api.Request(tgbotapi.NewDeleteMessage(l.chatID, l.messageID)); err != nil {
			log.Printf("[Bot] could not delete loading message: %v", err)
		}
	})
}
