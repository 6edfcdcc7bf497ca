package extract

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/makar2108/telegram-bot/browser"
	"github.com/makar2108/telegram-bot/fetch"
	"github.com/makar2108/telegram-bot/sites"
)

// VideoResult is the single outcome of the video search: one playable video
// URL, or a large page image when no video exists.
type VideoResult struct {
	URL  string
	Kind string // "video" or "photo"
}

// minimum intercepted payload for a network response to count as a video
const minVideoCaptureBytes = 100_000

var videoEmbedDomains = []string{
	"youtube.com", "youtu.be", "vimeo.com", "dailymotion.com", "twitch.tv", "player",
}

var videoStreamMarkers = []string{".mp4", ".webm", ".mov", ".m3u8", "video/"}

// nonVideoResponseMarkers filter out stylesheet/script/image noise before the
// video checks run.
var nonVideoResponseMarkers = []string{".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"}

// jsonLDVideoKeys are the structured-data fields that carry a playable URL.
var jsonLDVideoKeys = []string{"contentUrl", "embedUrl", "url", "video"}

// LocateVideo runs the single-result video waterfall: intercepted video
// responses, video/source elements (nested frames included), embed iframes,
// then JSON-LD. The first qualifying non-image URL wins. When no video turns
// up, the first sufficiently large page image is returned as a photo result.
// Photo-only hosts skip the whole search.
func (e *Extractor) LocateVideo(ctx context.Context, pageURL string) (VideoResult, bool) {
	if e.skipVideoSearch(pageURL) {
		log.Printf("[Extract] video search skipped for photo-only host")
		return VideoResult{}, false
	}

	session, err := browser.NewSession(ctx)
	if err != nil {
		log.Printf("[Extract] video search could not start browser: %v", err)
		return VideoResult{}, false
	}
	defer session.Close()

	var netMu sync.Mutex
	var capturedVideos []string
	session.OnResponse(func(r browser.CapturedResponse) {
		if !capturedVideo(r) {
			return
		}
		netMu.Lock()
		capturedVideos = append(capturedVideos, r.URL)
		netMu.Unlock()
		log.Printf("[Extract] captured video response: %s (%s, %d bytes)", r.URL, r.ContentType, r.ContentLength)
	})

	if err := session.Navigate(pageURL, 60*time.Second); err != nil {
		log.Printf("[Extract] video navigation did not finish cleanly: %v", err)
	}

	// A short scroll is enough; players sit near the top of the page.
	if err := session.EvaluateAsync(scrollScript(100, 2000), nil); err != nil {
		log.Printf("[Extract] video scroll failed: %v", err)
	}
	session.Sleep(3 * time.Second)

	netMu.Lock()
	captured := make([]string, len(capturedVideos))
	copy(captured, capturedVideos)
	netMu.Unlock()
	for _, u := range captured {
		if !fetch.IsImageURL(u) {
			return VideoResult{URL: u, Kind: "video"}, true
		}
	}

	var elementSrcs []string
	if err := session.Evaluate(videoElementsScript, &elementSrcs); err == nil {
		for _, u := range elementSrcs {
			if !fetch.IsImageURL(u) {
				return VideoResult{URL: u, Kind: "video"}, true
			}
		}
	}

	var iframeSrcs []string
	if err := session.Evaluate(iframeSrcScript, &iframeSrcs); err == nil {
		for _, src := range iframeSrcs {
			lower := strings.ToLower(src)
			for _, domain := range videoEmbedDomains {
				if strings.Contains(lower, domain) {
					return VideoResult{URL: src, Kind: "video"}, true
				}
			}
		}
	}

	var jsonLD map[string]interface{}
	if err := session.Evaluate(jsonLDScript, &jsonLD); err == nil && jsonLD != nil {
		for _, key := range jsonLDVideoKeys {
			value, ok := jsonLD[key].(string)
			if ok && (strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")) {
				return VideoResult{URL: value, Kind: "video"}, true
			}
		}
	}

	// No video anywhere: fall back to the first non-icon image.
	var imgSrc string
	if err := session.Evaluate(largeImageScript, &imgSrc); err == nil && imgSrc != "" {
		return VideoResult{URL: imgSrc, Kind: "photo"}, true
	}

	return VideoResult{}, false
}

func (e *Extractor) skipVideoSearch(pageURL string) bool {
	if sites.SkipVideoSearch(pageURL) {
		return true
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, photoHost := range e.cfg.PhotoOnlyHosts {
		if strings.Contains(host, strings.ToLower(photoHost)) {
			return true
		}
	}
	return false
}

// capturedVideo decides whether an intercepted response is a playable video
// stream: video content-type or a stream marker in the URL, above the size
// floor that rejects previews and thumbnails.
func capturedVideo(r browser.CapturedResponse) bool {
	lower := strings.ToLower(r.URL)
	for _, marker := range nonVideoResponseMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	isVideo := strings.Contains(r.ContentType, "video/")
	if !isVideo {
		for _, marker := range videoStreamMarkers {
			if strings.Contains(lower, marker) {
				isVideo = true
				break
			}
		}
	}
	return isVideo && r.ContentLength > minVideoCaptureBytes
}
