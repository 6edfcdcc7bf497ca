package extract

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticScanKeepsScopedCDNMatches(t *testing.T) {
	scoped := "https://easybase.b-cdn.net/realty/flats/123/one.jpg"
	foreignObject := "https://easybase.b-cdn.net/realty/flats/999/other.jpg"
	unrelated := "https://unrelated.example.com/pic.jpg"
	escaped := strings.ReplaceAll("https://api.easybase.com.ua/media/realty/flats/123/two.webp", "/", escSlash)

	page := fmt.Sprintf(`<html><body>
		<img src="%s">
		<script>var gallery = ["%s", "%s"]; var other = "%s";</script>
	</body></html>`, scoped, escaped, foreignObject, unrelated)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	pageURL := server.URL + "/flats/123/great-flat"
	acc := NewAccumulator(pageURL)
	require.NoError(t, testExtractor().staticScan(pageURL, acc))

	got := acc.URLs()
	assert.Contains(t, got, scoped)
	assert.Contains(t, got, "https://api.easybase.com.ua/media/realty/flats/123/two.webp",
		"escaped slashes must be unescaped before matching")
	assert.NotContains(t, got, foreignObject, "candidates scoped to another object are rejected")
	assert.NotContains(t, got, unrelated, "non-CDN URLs never pass the static scan")
}

func TestStaticScanWithoutObjectIDKeepsAllCDNMatches(t *testing.T) {
	one := "https://easybase.b-cdn.net/realty/flats/123/one.jpg"
	two := "https://easybase.b-cdn.net/realty/flats/999/two.jpg"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><img src="%s"><img src="%s"></body></html>`, one, two)
	}))
	defer server.Close()

	// No /flats/<id>/ segment in the page path, so no object scoping applies.
	acc := NewAccumulator(server.URL + "/search")
	require.NoError(t, testExtractor().staticScan(server.URL+"/search", acc))

	assert.ElementsMatch(t, []string{one, two}, acc.URLs())
}

func TestStaticScanFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	acc := NewAccumulator(server.URL)
	err := testExtractor().staticScan(server.URL, acc)
	require.Error(t, err)
	assert.Equal(t, 0, acc.Len())
}
