package media

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/makar2108/telegram-bot/fetch"
)

// altFormatExtensions are probed in order when looking for a sibling of an
// unsupported format.
var altFormatExtensions = []string{".jpg", ".jpeg", ".png"}

// FetchAltFormat probes for a directly deliverable sibling of a webp URL,
// since Telegram rejects webp as a photo. Many CDNs store the same image under
// several extensions, so swapping the suffix is tried before paying for a
// re-encode. The first sibling answering 200 with a matching image
// content-type and a non-empty body wins.
func FetchAltFormat(ctx context.Context, client *fetch.Client, rawURL string) ([]byte, bool) {
	lower := strings.ToLower(rawURL)
	if !strings.HasSuffix(lower, ".webp") {
		return nil, false
	}

	base := rawURL[:len(rawURL)-len(".webp")]
	for _, ext := range altFormatExtensions {
		alt := base + ext
		data, ok := fetchImageBody(ctx, client, alt)
		if ok {
			log.Printf("[Media] using alternate format %s for %s", ext, rawURL)
			return data, true
		}
	}
	return nil, false
}

func fetchImageBody(ctx context.Context, client *fetch.Client, rawURL string) ([]byte, bool) {
	resp, err := client.Get(ctx, rawURL, fetch.ImageProfile(rawURL))
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(ctype, "image/jpeg") && !strings.HasPrefix(ctype, "image/png") {
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFileSize+1))
	if err != nil || len(data) == 0 || len(data) > MaxFileSize {
		return nil, false
	}
	return data, true
}
