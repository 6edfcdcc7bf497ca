package extract

import (
	"net/url"
	"strings"
)

// Candidate is a URL discovered by an extraction strategy, not yet validated
// as a real media resource.
type Candidate struct {
	URL      string
	Strategy string
	Order    int
}

// Accumulator collects candidate URLs across strategies. Every URL is
// resolved to an absolute form, deduplicated by exact string equality, and
// kept in first-seen order; the first strategy to report a URL owns it.
type Accumulator struct {
	base *url.URL
	seen map[string]struct{}
	list []Candidate
}

// NewAccumulator creates an accumulator resolving relative URLs against
// baseURL. An empty or unparseable base means relative URLs are dropped.
func NewAccumulator(baseURL string) *Accumulator {
	acc := &Accumulator{seen: make(map[string]struct{})}
	if baseURL != "" {
		if parsed, err := url.Parse(baseURL); err == nil && parsed.Scheme != "" {
			acc.base = parsed
		}
	}
	return acc
}

// Add normalizes one raw URL and records it under the given strategy tag.
func (a *Accumulator) Add(strategy, raw string) {
	resolved := a.resolve(raw)
	if resolved == "" {
		return
	}
	if _, dup := a.seen[resolved]; dup {
		return
	}
	a.seen[resolved] = struct{}{}
	a.list = append(a.list, Candidate{
		URL:      resolved,
		Strategy: strategy,
		Order:    len(a.list),
	})
}

// AddAll records a batch of raw URLs in order.
func (a *Accumulator) AddAll(strategy string, raws []string) {
	for _, raw := range raws {
		a.Add(strategy, raw)
	}
}

func (a *Accumulator) resolve(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Protocol-relative URLs get upgraded to https.
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	// Relative URL: resolve against the base when we have one, drop otherwise.
	if a.base == nil {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	joined := a.base.ResolveReference(ref)
	if joined.Scheme != "http" && joined.Scheme != "https" {
		return ""
	}
	return joined.String()
}

// Contains reports whether the normalized form of raw was already recorded.
func (a *Accumulator) Contains(raw string) bool {
	resolved := a.resolve(raw)
	if resolved == "" {
		return false
	}
	_, ok := a.seen[resolved]
	return ok
}

// Len returns the number of recorded candidates.
func (a *Accumulator) Len() int {
	return len(a.list)
}

// Candidates returns the recorded candidates in discovery order.
func (a *Accumulator) Candidates() []Candidate {
	out := make([]Candidate, len(a.list))
	copy(out, a.list)
	return out
}

// URLs returns just the candidate URLs in discovery order.
func (a *Accumulator) URLs() []string {
	out := make([]string, 0, len(a.list))
	for _, c := range a.list {
		out = append(out, c.URL)
	}
	return out
}
