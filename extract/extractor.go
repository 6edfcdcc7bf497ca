package extract

import (
	"context"
	"log"

	"github.com/makar2108/telegram-bot/config"
	"github.com/makar2108/telegram-bot/fetch"
)

// Strategy tags recorded on candidates, in waterfall priority order.
const (
	StrategyNetwork = "network" // intercepted network responses
	StrategyDOM     = "dom"     // DOM attribute scan, gallery walker, rendered markup
	StrategyScript  = "script"  // URLs embedded in script bodies and JSON literals
	StrategyState   = "state"   // framework embedded-state gallery array
	StrategyEscaped = "escaped" // /-escaped URLs inside scripts
	StrategyRegex   = "regex"   // raw regex over the rendered document
	StrategyStatic  = "static"  // fast static scan results
	StrategyRawHTML = "rawhtml" // literal-HTML img parse
)

// Input is one extraction request: either a page URL, or a literal HTML
// snippet with an optional base URL for resolving relative paths.
type Input struct {
	URL     string
	RawHTML string
	BaseURL string
}

// Extractor runs the candidate-discovery waterfall: a cheap static fetch
// first, the full browser-rendered capture second, and a plain HTML parse for
// literal-HTML input. Extraction never fails; total failure yields an empty
// candidate list.
type Extractor struct {
	client *fetch.Client
	cfg    config.Config
}

// New creates an extractor using the shared fetch client and the configured
// thresholds.
func New(client *fetch.Client, cfg config.Config) *Extractor {
	return &Extractor{client: client, cfg: cfg}
}

// Extract produces an ordered, deduplicated list of absolute candidate URLs.
//
// For URL input the waterfall is: fast static scan (early stop when it alone
// finds enough), then the browser-rendered capture; when the browser stage
// runs to completion the static results are appended after everything it
// found. For literal-HTML input only the raw parse runs.
func (e *Extractor) Extract(ctx context.Context, in Input) []Candidate {
	if in.URL == "" {
		acc := NewAccumulator(in.BaseURL)
		e.rawHTMLScan(in.RawHTML, acc)
		return acc.Candidates()
	}

	staticAcc := NewAccumulator(in.URL)
	if err := e.staticScan(in.URL, staticAcc); err != nil {
		log.Printf("[Extract] static scan failed: %v", err)
	}
	if staticAcc.Len() >= e.cfg.StaticEarlyStop {
		log.Printf("[Extract] static scan found %d candidates, skipping browser", staticAcc.Len())
		return staticAcc.Candidates()
	}

	acc := NewAccumulator(in.URL)
	stopped, err := e.browserScan(ctx, in.URL, acc)
	if err != nil {
		log.Printf("[Extract] browser scan failed: %v", err)
	}
	if stopped {
		return acc.Candidates()
	}

	// Static results ride along after everything the browser found.
	for _, c := range staticAcc.Candidates() {
		acc.Add(StrategyStatic, c.URL)
	}

	log.Printf("[Extract] %d candidates total for %s", acc.Len(), in.URL)
	return acc.Candidates()
}
