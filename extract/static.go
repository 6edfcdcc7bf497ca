package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gocolly/colly"

	"github.com/makar2108/telegram-bot/sites"
)

// staticImagePattern matches absolute image URLs inside raw HTML and inline
// script bodies.
var staticImagePattern = regexp.MustCompile(`(?i)https?://[^\s'"<>]+\.(?:webp|jpg|jpeg|png|bmp)`)

// staticScan is the cheapest waterfall stage: one GET, no browser. It
// unescapes the \u002F slash encoding frameworks serialize into script
// bodies, regex-scans the text for image URLs, and keeps those matching a
// registered site's CDN convention, scoped to the page's object id when one
// is present in the source path.
func (e *Extractor) staticScan(pageURL string, acc *Accumulator) error {
	collector := e.client.NewCollector()

	var body string
	collector.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})

	var fetchErr error
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(pageURL); err != nil {
		return fmt.Errorf("static fetch failed: %w", err)
	}
	if fetchErr != nil {
		return fmt.Errorf("static fetch failed: %w", fetchErr)
	}
	if body == "" {
		return nil
	}

	unescaped := strings.ReplaceAll(body, `\u002F`, "/")

	for _, match := range staticImagePattern.FindAllString(unescaped, -1) {
		for _, site := range sites.All() {
			if !site.MatchesCDN(match) {
				continue
			}
			objectID := site.ObjectID(pageURL)
			if objectID == "" || site.ScopedTo(match, objectID) {
				acc.Add(StrategyStatic, match)
			}
			break
		}
	}

	return nil
}
