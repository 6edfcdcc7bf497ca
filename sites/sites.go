package sites

import (
	"log"
	"net/url"
	"strings"
)

// Site is a per-host media policy. A site knows which source hosts it serves,
// which candidate URLs belong to its media CDN, and how to scope candidates
// to the object a page is about.
type Site interface {
	// Name returns the site identifier.
	Name() string

	// MatchesHost reports whether the policy applies to a source page host.
	MatchesHost(host string) bool

	// MatchesCDN reports whether a candidate URL follows the site's media
	// CDN convention. Decorative assets (icons, favicons, avatars) never match.
	MatchesCDN(candidateURL string) bool

	// ObjectID extracts the object identifier from a source page URL, or ""
	// when the page is not object-scoped.
	ObjectID(sourceURL string) string

	// ScopedTo reports whether a candidate URL is scoped to the object id.
	ScopedTo(candidateURL, objectID string) bool

	// CDNHosts returns the media CDN hostnames for this site. The in-page
	// attribute scan matches any URL on these hosts.
	CDNHosts() []string

	// SkipVideoSearch reports whether video discovery should be skipped
	// entirely for pages on this site.
	SkipVideoSearch() bool
}

// registry holds every known site policy. Unrecognized hosts pass through
// all filtering unchanged.
var registry = []Site{
	&EasyhataSite{},
}

// ForHost returns the policy for a source host, or nil.
func ForHost(host string) Site {
	host = strings.ToLower(host)
	for _, site := range registry {
		if site.MatchesHost(host) {
			return site
		}
	}
	return nil
}

// All returns every registered policy. The fast static scan consults these
// to recognize CDN URLs regardless of which page embeds them.
func All() []Site {
	return registry
}

// FilterCandidates applies the host policy for sourceURL to a candidate list.
// For a recognized host only CDN-convention matches survive; candidates scoped
// to the page's object id are preferred, and unscoped CDN matches are still
// accepted unless strict is set. Unrecognized hosts pass through unfiltered.
// The original order of survivors is preserved.
func FilterCandidates(sourceURL string, candidates []string, strict bool) []string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return candidates
	}
	site := ForHost(parsed.Hostname())
	if site == nil {
		return candidates
	}

	objectID := site.ObjectID(sourceURL)

	filtered := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if !site.MatchesCDN(candidate) {
			continue
		}
		if objectID != "" && strict && !site.ScopedTo(candidate, objectID) {
			continue
		}
		filtered = append(filtered, candidate)
	}

	// A policy that filters everything away is worse than no policy: keep the
	// original list so downstream classification can still try.
	if len(filtered) == 0 {
		log.Printf("[Sites] %s policy matched no candidates, passing %d through unfiltered",
			site.Name(), len(candidates))
		return candidates
	}

	log.Printf("[Sites] %s policy kept %d of %d candidates", site.Name(), len(filtered), len(candidates))
	return filtered
}

// IsCDNMedia reports whether any registered policy recognizes the URL as
// site CDN media. Such URLs are trusted as photos without a network probe.
func IsCDNMedia(candidateURL string) bool {
	for _, site := range registry {
		if site.MatchesCDN(candidateURL) {
			return true
		}
	}
	return false
}

// SkipVideoSearch reports whether the host of sourceURL is a photo-only site.
func SkipVideoSearch(sourceURL string) bool {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return false
	}
	site := ForHost(parsed.Hostname())
	return site != nil && site.SkipVideoSearch()
}
