package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/makar2108/telegram-bot/fetch"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want Kind
	}{
		{"jpg extension", "https://cdn.example.com/photo.jpg", KindPhoto},
		{"webp extension", "https://cdn.example.com/photo.webp", KindPhoto},
		{"mp4 extension", "https://cdn.example.com/clip.mp4", KindVideo},
		{"video host beats extension", "https://youtube.com/watch/thumb.jpg", KindVideo},
		{"short link host", "https://youtu.be/abc123", KindVideo},
		{"video path keyword", "https://cdn.example.com/stream/8213", KindVideo},
		{"extensionless", "https://cdn.example.com/resource", KindUnknown},
		{"query string hides extension", "https://cdn.example.com/photo.jpg?w=800", KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.url))
		})
	}
}

func TestProbeImageUsesHead(t *testing.T) {
	var gets int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets++
		}
		w.Header().Set("Content-Type", "image/png")
	}))
	defer server.Close()

	ok := ProbeImage(context.Background(), fetch.NewClient(0), server.URL+"/img")
	assert.True(t, ok)
	assert.Equal(t, 0, gets, "a successful HEAD must not be followed by a GET")
}

func TestProbeImageFallsBackToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer server.Close()

	assert.True(t, ProbeImage(context.Background(), fetch.NewClient(0), server.URL+"/img"))
}

func TestProbeImageRejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	}))
	defer server.Close()

	assert.False(t, ProbeImage(context.Background(), fetch.NewClient(0), server.URL+"/page"))
}
