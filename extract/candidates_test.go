package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulatorDeduplicatesAndKeepsOrder(t *testing.T) {
	acc := NewAccumulator("https://example.com/flats/1/")

	acc.Add(StrategyNetwork, "https://cdn.example.com/a.jpg")
	acc.Add(StrategyDOM, "https://cdn.example.com/b.jpg")
	acc.Add(StrategyStatic, "https://cdn.example.com/a.jpg") // duplicate

	require.Equal(t, 2, acc.Len())

	got := acc.Candidates()
	assert.Equal(t, "https://cdn.example.com/a.jpg", got[0].URL)
	assert.Equal(t, StrategyNetwork, got[0].Strategy, "first strategy to report a URL owns it")
	assert.Equal(t, "https://cdn.example.com/b.jpg", got[1].URL)
	assert.Equal(t, 0, got[0].Order)
	assert.Equal(t, 1, got[1].Order)
}

func TestAccumulatorResolvesURLForms(t *testing.T) {
	cases := []struct {
		name string
		base string
		raw  string
		want string
	}{
		{"absolute kept as-is", "https://example.com/page", "https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"protocol-relative upgraded", "https://example.com/page", "//cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"relative resolved against base", "https://example.com/flats/1/", "photos/x.jpg", "https://example.com/flats/1/photos/x.jpg"},
		{"root-relative resolved", "https://example.com/flats/1/", "/media/x.jpg", "https://example.com/media/x.jpg"},
		{"whitespace trimmed", "https://example.com/", "  https://cdn.example.com/x.jpg  ", "https://cdn.example.com/x.jpg"},
		{"relative dropped without base", "", "photos/x.jpg", ""},
		{"non-http scheme dropped", "https://example.com/", "data:image/png;base64,AAAA", ""},
		{"empty dropped", "https://example.com/", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acc := NewAccumulator(tc.base)
			acc.Add(StrategyDOM, tc.raw)
			if tc.want == "" {
				assert.Equal(t, 0, acc.Len())
				return
			}
			require.Equal(t, 1, acc.Len())
			assert.Equal(t, tc.want, acc.Candidates()[0].URL)
		})
	}
}

func TestAccumulatorContains(t *testing.T) {
	acc := NewAccumulator("https://example.com/")
	acc.Add(StrategyDOM, "/media/x.jpg")

	assert.True(t, acc.Contains("https://example.com/media/x.jpg"))
	assert.True(t, acc.Contains("/media/x.jpg"), "relative form resolves to the same URL")
	assert.False(t, acc.Contains("https://example.com/media/y.jpg"))
}

func TestAccumulatorAddAll(t *testing.T) {
	acc := NewAccumulator("https://example.com/")
	acc.AddAll(StrategyScript, []string{
		"https://cdn.example.com/1.jpg",
		"",
		"https://cdn.example.com/2.jpg",
		"https://cdn.example.com/1.jpg",
	})

	assert.Equal(t, []string{
		"https://cdn.example.com/1.jpg",
		"https://cdn.example.com/2.jpg",
	}, acc.URLs())
}
