package sites

import (
	"regexp"
	"strings"
)

// EasyhataSite implements the Site policy for easyhata.site listings. Photos
// live on the easybase CDN under a realty path; everything else on the page
// (icons, avatars, UI sprites) is decoration.
type EasyhataSite struct{}

// Ensure EasyhataSite implements Site
var _ Site = (*EasyhataSite)(nil)

var easyhataObjectID = regexp.MustCompile(`/flats/(\d+)/`)

// decorativeMarkers appear only in assets that are never listing photos.
var decorativeMarkers = []string{".svg", "favicon.ico", "/avatar/"}

// Name returns the site identifier
func (s *EasyhataSite) Name() string {
	return "easyhata"
}

// MatchesHost reports whether host is an easyhata page host
func (s *EasyhataSite) MatchesHost(host string) bool {
	return strings.Contains(host, "easyhata.site")
}

// MatchesCDN accepts URLs following either easybase CDN convention.
func (s *EasyhataSite) MatchesCDN(candidateURL string) bool {
	lower := strings.ToLower(candidateURL)
	for _, marker := range decorativeMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	if strings.Contains(lower, "easybase.b-cdn.net") && strings.Contains(lower, "/realty/") {
		return true
	}
	if strings.Contains(lower, "api.easybase.com.ua") && strings.Contains(lower, "/media/realty/") {
		return true
	}
	return false
}

// ObjectID pulls the listing id out of a /flats/<id>/ source path.
func (s *EasyhataSite) ObjectID(sourceURL string) string {
	m := easyhataObjectID.FindStringSubmatch(sourceURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// ScopedTo reports whether the candidate path contains the listing id.
func (s *EasyhataSite) ScopedTo(candidateURL, objectID string) bool {
	if objectID == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidateURL), "/"+objectID+"/")
}

// CDNHosts returns the easybase CDN hostnames.
func (s *EasyhataSite) CDNHosts() []string {
	return []string{"easybase.b-cdn.net", "api.easybase.com.ua"}
}

// SkipVideoSearch returns true: easyhata listings never carry video, so the
// browser video pass would only waste a navigation.
func (s *EasyhataSite) SkipVideoSearch() bool {
	return true
}
