package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makar2108/telegram-bot/browser"
)

func TestCapturedImage(t *testing.T) {
	cases := []struct {
		name string
		resp browser.CapturedResponse
		want bool
	}{
		{
			"image content-type above the floor",
			browser.CapturedResponse{URL: "https://cdn/x", ContentType: "image/jpeg", ContentLength: 50_000},
			true,
		},
		{
			"image extension without content-type",
			browser.CapturedResponse{URL: "https://cdn/x.png", ContentType: "application/octet-stream", ContentLength: 50_000},
			true,
		},
		{
			"icon below the size floor",
			browser.CapturedResponse{URL: "https://cdn/spark.png", ContentType: "image/png", ContentLength: 512},
			false,
		},
		{
			"undeclared length is accepted",
			browser.CapturedResponse{URL: "https://cdn/x.jpg", ContentType: "image/jpeg", ContentLength: -1},
			true,
		},
		{
			"not an image at all",
			browser.CapturedResponse{URL: "https://cdn/app.js", ContentType: "text/javascript", ContentLength: 90_000},
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, capturedImage(tc.resp))
		})
	}
}

func TestCDNImage(t *testing.T) {
	assert.True(t, cdnImage("https://easybase.b-cdn.net/realty/flats/1/a.jpg"))
	assert.False(t, cdnImage("https://easybase.b-cdn.net/realty/flats/1/page.html"))
	assert.False(t, cdnImage("https://random.example.com/a.jpg"))
}

func TestRecoverEscapedURLs(t *testing.T) {
	escaped := strings.ReplaceAll("https://easybase.b-cdn.net/realty/flats/9/photo.webp", "/", escSlash)
	html := `<script>window.__STATE__ = {"img":"` + escaped + `"}</script>`

	got := recoverEscapedURLs(html)
	require.Len(t, got, 1)
	assert.Equal(t, "https://easybase.b-cdn.net/realty/flats/9/photo.webp", got[0])
}

func TestRecoverEscapedURLsIgnoresPlainMarkup(t *testing.T) {
	assert.Empty(t, recoverEscapedURLs(`<img src="https://easybase.b-cdn.net/realty/a.jpg">`))
}
