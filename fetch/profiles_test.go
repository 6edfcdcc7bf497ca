package fetch

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageProfileDerivesReferer(t *testing.T) {
	profile := ImageProfile("https://easybase.b-cdn.net/realty/flats/1/photo.jpg")
	assert.Equal(t, "https://easybase.b-cdn.net/", profile.Headers["Referer"])

	profile = ImageProfile("not a url")
	_, hasReferer := profile.Headers["Referer"]
	assert.False(t, hasReferer)
}

func TestVideoProfileCarriesRangeAndOrigin(t *testing.T) {
	profile := VideoProfile("https://host.example.com/flats/1/page")
	assert.Equal(t, "bytes=0-", profile.Headers["Range"])
	assert.Equal(t, "https://host.example.com/flats/1/page", profile.Headers["Referer"])
	assert.Equal(t, "https://host.example.com", profile.Headers["Origin"])

	profile = VideoProfile("")
	_, hasReferer := profile.Headers["Referer"]
	assert.False(t, hasReferer)
}

func TestProfileApply(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	require.NoError(t, err)

	PageProfile().Apply(req)
	assert.Equal(t, defaultUserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, "gzip, br", req.Header.Get("Accept-Encoding"))
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://cdn/a.JPG"))
	assert.True(t, IsImageURL("https://cdn/a.webp"))
	assert.False(t, IsImageURL("https://cdn/a.mp4"))
	assert.False(t, IsImageURL("https://cdn/a.jpg?x=1"))
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, "image", ProfileFor("https://cdn/a.png").Name)
	assert.Equal(t, "generic", ProfileFor("https://cdn/page").Name)
}
