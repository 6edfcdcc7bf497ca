package fetch

import (
	"net/http"
	"net/url"
	"strings"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Profile is a named set of request headers. Different targets want different
// header shapes: CDNs serving images check Accept and Referer, video hosts
// check Range and Origin.
type Profile struct {
	Name    string
	Headers map[string]string
}

// Apply copies the profile headers onto a request.
func (p Profile) Apply(req *http.Request) {
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}
}

// GenericProfile is the neutral browser-like default.
func GenericProfile() Profile {
	return Profile{
		Name: "generic",
		Headers: map[string]string{
			"User-Agent":      defaultUserAgent,
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}

// PageProfile is used when fetching an HTML document.
func PageProfile() Profile {
	return Profile{
		Name: "page",
		Headers: map[string]string{
			"User-Agent":      defaultUserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.5",
			"Accept-Encoding": "gzip, br",
			"Connection":      "keep-alive",
		},
	}
}

// ImageProfile tunes the Accept header for image CDNs and derives a Referer
// from the target's own origin, which several CDNs require.
func ImageProfile(target string) Profile {
	headers := map[string]string{
		"User-Agent":      defaultUserAgent,
		"Accept":          "image/avif,image/webp,image/apng,image/*,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
	if parsed, err := url.Parse(target); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		headers["Referer"] = parsed.Scheme + "://" + parsed.Host + "/"
	}
	return Profile{Name: "image", Headers: headers}
}

// VideoProfile carries the Range and Origin headers some video hosts insist
// on before they serve the file.
func VideoProfile(referer string) Profile {
	headers := map[string]string{
		"User-Agent":      defaultUserAgent,
		"Accept":          "video/webm,video/ogg,video/*;q=0.9,application/ogg;q=0.7,audio/*;q=0.6,*/*;q=0.5",
		"Accept-Language": "en-US,en;q=0.5",
		"Range":           "bytes=0-",
		"DNT":             "1",
	}
	if referer != "" {
		headers["Referer"] = referer
		if parsed, err := url.Parse(referer); err == nil && parsed.Scheme != "" && parsed.Host != "" {
			headers["Origin"] = parsed.Scheme + "://" + parsed.Host
		}
	}
	return Profile{Name: "video", Headers: headers}
}

// IsImageURL reports whether the URL path ends in a known image extension.
func IsImageURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ProfileFor picks the image profile for image-looking URLs and the generic
// profile for everything else.
func ProfileFor(rawURL string) Profile {
	if IsImageURL(rawURL) {
		return ImageProfile(rawURL)
	}
	return GenericProfile()
}
