package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsZeroedThresholds(t *testing.T) {
	cfg := applyDefaults(Config{AdminID: 42, StaticEarlyStop: 3})

	assert.Equal(t, int64(42), cfg.AdminID)
	assert.Equal(t, 3, cfg.StaticEarlyStop, "explicit values survive")
	assert.Equal(t, 12, cfg.BrowserEarlyStop)
	assert.Equal(t, 40, cfg.MaxGallerySteps)
	assert.Equal(t, 400, cfg.ScrollStep)
	assert.Equal(t, 12000, cfg.ScrollCeiling)
	assert.Equal(t, []string{"easyhata.site"}, cfg.PhotoOnlyHosts)
}

func TestApplyDefaultsKeepsExplicitPhotoOnlyHosts(t *testing.T) {
	cfg := applyDefaults(Config{PhotoOnlyHosts: []string{}})
	assert.Empty(t, cfg.PhotoOnlyHosts, "an explicit empty list disables the skip")
}

func TestPacingDurations(t *testing.T) {
	cfg := applyDefaults(Config{})
	assert.Equal(t, 400*time.Millisecond, cfg.GroupPacing())
	assert.Equal(t, 200*time.Millisecond, cfg.DocumentPacing())
}

func TestBotTokenFromEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	token, err := BotToken()
	assert.NoError(t, err)
	assert.Equal(t, "123:abc", token)

	t.Setenv("BOT_TOKEN", "")
	_, err = BotToken()
	assert.Error(t, err)
}
