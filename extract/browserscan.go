package extract

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/makar2108/telegram-bot/browser"
	"github.com/makar2108/telegram-bot/fetch"
	"github.com/makar2108/telegram-bot/sites"
)

// minimum captured image payload; anything smaller is an icon or sprite
const minImageCaptureBytes = 2048

// browserImagePattern matches absolute image URLs in the rendered document.
var browserImagePattern = regexp.MustCompile(`(?i)https?://[^\s'"<>]+\.(?:jpg|jpeg|png|webp|gif|bmp)`)

// escSlash is the escaped-slash sequence frameworks emit inside script text.
const escSlash = `\u002F`

// escapedImagePattern recovers image URLs serialized with escaped slashes
// inside script bodies.
var escapedImagePattern = regexp.MustCompile(`(?i)https:\\u002F\\u002F[^\s'"<>]+\.(?:jpg|jpeg|png|webp|gif|bmp)`)

// browserScan is the expensive waterfall stage: render the page, intercept
// image responses, probe the framework state, scroll lazy content in, scan
// the DOM, walk any gallery, and mine scripts. Returns stop=true when the
// early probe alone satisfied the threshold.
func (e *Extractor) browserScan(ctx context.Context, pageURL string, acc *Accumulator) (bool, error) {
	session, err := browser.NewSession(ctx)
	if err != nil {
		return false, err
	}
	defer session.Close()

	var netMu sync.Mutex
	var networkImages []string
	session.OnResponse(func(r browser.CapturedResponse) {
		if !capturedImage(r) {
			return
		}
		netMu.Lock()
		networkImages = append(networkImages, r.URL)
		netMu.Unlock()
	})

	// A timeout here is survivable: whatever the page managed to load is
	// still worth scanning.
	if err := session.Navigate(pageURL, 30*time.Second); err != nil {
		log.Printf("[Extract] navigation did not finish cleanly: %v", err)
	}

	// Early probe: framework state plus the main slider, before any of the
	// slower steps.
	var earlyState, earlySlider []string
	if err := session.Evaluate(nuxtStateScript, &earlyState); err != nil {
		earlyState = nil
	}
	if err := session.Evaluate(mainSliderScript, &earlySlider); err != nil {
		earlySlider = nil
	}
	early := NewAccumulator(pageURL)
	for _, u := range append(earlyState, earlySlider...) {
		if cdnImage(u) {
			early.Add(StrategyState, u)
		}
	}
	if early.Len() >= e.cfg.BrowserEarlyStop {
		log.Printf("[Extract] early probe found %d candidates, stopping", early.Len())
		for _, c := range early.Candidates() {
			acc.Add(c.Strategy, c.URL)
		}
		return true, nil
	}

	// Scroll to the bottom in bounded increments to trigger lazy loading.
	if err := session.EvaluateAsync(scrollScript(e.cfg.ScrollStep, e.cfg.ScrollCeiling), nil); err != nil {
		log.Printf("[Extract] scroll failed: %v", err)
	}
	session.Sleep(3 * time.Second)

	var domURLs []string
	if err := session.Evaluate(domCollectScript(), &domURLs); err != nil {
		log.Printf("[Extract] DOM scan failed: %v", err)
	}

	domURLs = append(domURLs, e.walkGallery(session)...)

	// Photo/gallery tab labels, then re-scan the usual containers.
	if err := session.Evaluate(labelClickScript, nil); err == nil {
		session.Sleep(500 * time.Millisecond)
		var extra []string
		if err := session.Evaluate(galleryContainersScript, &extra); err == nil {
			domURLs = append(domURLs, extra...)
		}
	}

	var scriptURLs []string
	if err := session.Evaluate(scriptJSONScript, &scriptURLs); err != nil {
		log.Printf("[Extract] script scan failed: %v", err)
	}

	var stateURLs []string
	if err := session.Evaluate(nuxtStateScript, &stateURLs); err != nil {
		stateURLs = nil
	}

	html, err := session.HTML()
	if err != nil {
		log.Printf("[Extract] could not read rendered HTML: %v", err)
		html = ""
	}

	renderedURLs := parseRenderedHTML(html)
	escapedURLs := recoverEscapedURLs(html)
	regexURLs := browserImagePattern.FindAllString(html, -1)

	netMu.Lock()
	captured := make([]string, len(networkImages))
	copy(captured, networkImages)
	netMu.Unlock()

	// Fixed accumulation order across sub-strategies; the accumulator keeps
	// the first occurrence of every URL.
	acc.AddAll(StrategyNetwork, captured)
	acc.AddAll(StrategyDOM, domURLs)
	acc.AddAll(StrategyDOM, renderedURLs)
	acc.AddAll(StrategyScript, scriptURLs)
	acc.AddAll(StrategyState, stateURLs)
	acc.AddAll(StrategyEscaped, escapedURLs)
	acc.AddAll(StrategyRegex, regexURLs)

	return false, nil
}

// capturedImage decides whether an intercepted response is a real image:
// image content-type or extension, and past the icon-size floor when the
// server declared a length.
func capturedImage(r browser.CapturedResponse) bool {
	if !strings.Contains(r.ContentType, "image/") && !fetch.IsImageURL(r.URL) {
		return false
	}
	if r.ContentLength >= 0 && r.ContentLength < minImageCaptureBytes {
		return false
	}
	return true
}

// cdnImage reports whether a URL is an image on a registered site's CDN.
func cdnImage(rawURL string) bool {
	if !fetch.IsImageURL(rawURL) {
		return false
	}
	for _, site := range sites.All() {
		if site.MatchesCDN(rawURL) {
			return true
		}
	}
	return false
}

// recoverEscapedURLs decodes escaped-slash image URLs found in script text.
func recoverEscapedURLs(htmlText string) []string {
	matches := escapedImagePattern.FindAllString(htmlText, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ReplaceAll(m, escSlash, "/"))
	}
	return out
}
