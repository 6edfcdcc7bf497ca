package fetch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gocolly/colly"
)

// Client is a thin HTTP wrapper shared by the extraction, classification and
// download paths. It applies a header profile per request and leaves the body
// open for streaming; callers own the response.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client with the given per-request timeout. A zero
// timeout means 30 seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Get issues a GET with the profile's headers. The response body is not
// consumed; the caller must close it.
func (c *Client) Get(ctx context.Context, targetURL string, profile Profile) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	profile.Apply(req)
	return c.httpClient.Do(req)
}

// Head issues a HEAD with the profile's headers, following redirects.
func (c *Client) Head(ctx context.Context, targetURL string, profile Profile) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	profile.Apply(req)
	return c.httpClient.Do(req)
}

// NewCollector creates a Colly collector with the page header profile and
// automatic decompression applied. Used by the fast static scan.
func (c *Client) NewCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	collector.SetRequestTimeout(c.timeout)
	collector.UserAgent = defaultUserAgent

	collector.OnRequest(func(r *colly.Request) {
		for k, v := range PageProfile().Headers {
			if k == "User-Agent" {
				continue
			}
			r.Headers.Set(k, v)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		if _, err := DecompressCollyResponse(r); err != nil {
			// Keep the raw body; the regex scan simply finds nothing.
			log.Printf("[Fetch] Failed to decompress: %v", err)
		}
	})

	return collector
}
