package browser

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Session manages a headless chromedp browser context for one page scrape.
// Every session must be closed; the extraction paths do so with defer.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// CapturedResponse describes one intercepted network response.
type CapturedResponse struct {
	URL           string
	ContentType   string
	ContentLength int64 // -1 when the header is absent
}

// NewSession starts a headless browser. The parent context bounds the whole
// session lifetime.
func NewSession(ctx context.Context) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	session := &Session{
		ctx:    browserCtx,
		cancel: func() { cancelBrowser(); cancelAlloc() },
	}

	if err := chromedp.Run(browserCtx, network.Enable()); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to enable network events: %w", err)
	}

	return session, nil
}

// OnResponse registers a handler for every network response received during
// the session. Must be called before Navigate to catch document subresources.
func (s *Session) OnResponse(handler func(CapturedResponse)) {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok || resp.Response == nil {
			return
		}
		handler(CapturedResponse{
			URL:           resp.Response.URL,
			ContentType:   strings.ToLower(resp.Response.MimeType),
			ContentLength: headerContentLength(resp.Response.Headers),
		})
	})
}

func headerContentLength(headers network.Headers) int64 {
	for _, key := range []string{"Content-Length", "content-length"} {
		if raw, ok := headers[key]; ok {
			if str, ok := raw.(string); ok {
				if n, err := strconv.ParseInt(str, 10, 64); err == nil {
					return n
				}
			}
		}
	}
	return -1
}

// Navigate loads a URL and waits for the body to be ready. A timeout here is
// not fatal for extraction: the caller proceeds with whatever network captures
// and partial DOM already exist.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Evaluate runs JavaScript and unmarshals the result.
func (s *Session) Evaluate(js string, res interface{}) error {
	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	return chromedp.Run(ctx, chromedp.Evaluate(js, res))
}

// EvaluateAsync runs JavaScript that returns a promise and waits for it to
// settle. Used for the lazy-load scroll loop.
func (s *Session) EvaluateAsync(js string, res interface{}) error {
	ctx, cancel := context.WithTimeout(s.ctx, 60*time.Second)
	defer cancel()

	return chromedp.Run(ctx, chromedp.Evaluate(js, res,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
}

// Click clicks the first element matching the selector. Returns an error when
// nothing matches within the timeout, which gallery walking treats as a stop
// condition rather than a failure.
func (s *Session) Click(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// Sleep lets in-page animations and lazy loads settle.
func (s *Session) Sleep(d time.Duration) {
	ctx, cancel := context.WithTimeout(s.ctx, d+time.Second)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Sleep(d)); err != nil {
		log.Printf("[Browser] sleep interrupted: %v", err)
	}
}

// HTML returns the rendered document markup.
func (s *Session) HTML() (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	var html string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html))
	return html, err
}

// Close tears the browser down. Safe to call more than once.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}
