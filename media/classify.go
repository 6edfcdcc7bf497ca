package media

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/makar2108/telegram-bot/fetch"
)

// Kind is the media classification of a URL.
type Kind string

const (
	KindPhoto   Kind = "photo"
	KindVideo   Kind = "video"
	KindUnknown Kind = "unknown"
)

var photoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

var videoExtensions = []string{".mp4", ".webm", ".mov", ".avi", ".mkv"}

// videoHostMarkers identify the popular video hosts; a URL on any of them is
// a video regardless of extension.
var videoHostMarkers = []string{
	"youtube.com", "youtu.be", "vimeo.com", "dailymotion.com", "twitch.tv",
	"tiktok.com", "instagram.com/reel", "facebook.com/watch", "youtube.com/shorts",
}

var videoKeywords = []string{"video/", "stream/", "media/video"}

// Classify decides photo/video/unknown from the URL text alone, without any
// network I/O.
func Classify(rawURL string) Kind {
	lower := strings.ToLower(rawURL)

	for _, marker := range videoHostMarkers {
		if strings.Contains(lower, marker) {
			return KindVideo
		}
	}

	for _, ext := range photoExtensions {
		if strings.HasSuffix(lower, ext) {
			return KindPhoto
		}
	}
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return KindVideo
		}
	}

	for _, keyword := range videoKeywords {
		if strings.Contains(lower, keyword) {
			return KindVideo
		}
	}

	return KindUnknown
}

// ProbeImage checks whether a URL serves an image by content-type. HEAD is
// tried first to save traffic; servers that reject HEAD get a GET.
func ProbeImage(ctx context.Context, client *fetch.Client, rawURL string) bool {
	profile := fetch.ImageProfile(rawURL)

	resp, err := client.Head(ctx, rawURL, profile)
	if err == nil {
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed && resp.StatusCode != http.StatusBadRequest {
			return strings.HasPrefix(strings.ToLower(resp.Header.Get("Content-Type")), "image/")
		}
	}

	resp, err = client.Get(ctx, rawURL, profile)
	if err != nil {
		log.Printf("[Media] image probe failed for %s: %v", rawURL, err)
		return false
	}
	defer resp.Body.Close()
	return strings.HasPrefix(strings.ToLower(resp.Header.Get("Content-Type")), "image/")
}
