package bot

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/makar2108/telegram-bot/media"
)

var knownVideoExtensions = map[string]bool{
	"mp4": true, "webm": true, "mov": true, "avi": true, "mkv": true, "flv": true,
}

// DeliverVideo writes the downloaded video to a temp file, sends it as a
// video, and on failure retries once as a document. The temp file is removed
// on every exit path.
func (d *Deliverer) DeliverVideo(chatID int64, asset *media.Asset) error {
	path := filepath.Join(os.TempDir(), tempVideoName(asset.SourceURL))
	if err := os.WriteFile(path, asset.Bytes, 0644); err != nil {
		return fmt.Errorf("failed to stage video file: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("[Bot] failed to remove temp video %s: %v", path, err)
		}
	}()

	if _, err := d.sender.Send(tgbotapi.NewVideo(chatID, tgbotapi.FilePath(path))); err == nil {
		return nil
	} else {
		log.Printf("[Bot] video send failed, retrying as document: %v", err)
	}

	if _, err := d.sender.Send(tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))); err != nil {
		return fmt.Errorf("video delivery failed: %w", err)
	}
	return nil
}

// tempVideoName builds a unique staging filename, keeping the source
// extension when it is a recognized video container.
func tempVideoName(sourceURL string) string {
	ext := "mp4"
	if parsed, err := url.Parse(sourceURL); err == nil {
		candidate := strings.TrimPrefix(strings.ToLower(filepath.Ext(parsed.Path)), ".")
		if knownVideoExtensions[candidate] {
			ext = candidate
		}
	}
	return fmt.Sprintf("temp_video_%d.%s", time.Now().UnixNano(), ext)
}
