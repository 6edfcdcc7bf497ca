package extract

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// rawHTMLScan parses img tags out of a literal HTML snippet. Relative URLs
// resolve against the accumulator's base; with no base they are dropped.
func (e *Extractor) rawHTMLScan(htmlText string, acc *Accumulator) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		log.Printf("[Extract] failed to parse HTML: %v", err)
		return
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src == "" {
			src = s.AttrOr("data-src", "")
		}
		acc.Add(StrategyRawHTML, src)
	})
}

// firstSrcsetURL takes the first URL out of a srcset attribute value.
func firstSrcsetURL(srcset string) string {
	first := strings.TrimSpace(strings.Split(srcset, ",")[0])
	if first == "" {
		return ""
	}
	return strings.Fields(first)[0]
}

// parseRenderedHTML walks the browser-rendered markup for image references
// the DOM scan can miss: picture sources, noscript fallbacks, OpenGraph
// previews and image_src links.
func parseRenderedHTML(htmlText string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		log.Printf("[Extract] failed to parse rendered HTML: %v", err)
		return nil
	}

	var urls []string
	add := func(u string) {
		if u != "" {
			urls = append(urls, u)
		}
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("src", ""))
		add(s.AttrOr("data-src", ""))
		for _, attr := range []string{"srcset", "data-srcset"} {
			if srcset := s.AttrOr(attr, ""); srcset != "" {
				add(firstSrcsetURL(srcset))
			}
		}
	})

	doc.Find("source").Each(func(_ int, s *goquery.Selection) {
		if srcset := s.AttrOr("srcset", ""); srcset != "" {
			add(firstSrcsetURL(srcset))
		}
	})

	// Markup inside noscript is text to the outer document.
	doc.Find("noscript").Each(func(_ int, s *goquery.Selection) {
		inner, err := goquery.NewDocumentFromReader(strings.NewReader(s.Text()))
		if err != nil {
			return
		}
		inner.Find("img").Each(func(_ int, img *goquery.Selection) {
			add(img.AttrOr("src", ""))
			add(img.AttrOr("data-src", ""))
		})
	})

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		prop := s.AttrOr("property", "")
		if prop == "og:image" || prop == "og:image:secure_url" {
			add(s.AttrOr("content", ""))
		}
	})

	doc.Find(`link[rel*="image_src"]`).Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("href", ""))
	})

	return urls
}
