package bot

import (
	"errors"
	"os"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makar2108/telegram-bot/media"
)

func chattableFilePath(t *testing.T, c tgbotapi.Chattable) string {
	t.Helper()
	switch cfg := c.(type) {
	case tgbotapi.VideoConfig:
		return string(cfg.File.(tgbotapi.FilePath))
	case tgbotapi.DocumentConfig:
		return string(cfg.File.(tgbotapi.FilePath))
	}
	t.Fatalf("unexpected chattable %T", c)
	return ""
}

func TestDeliverVideoStagesAndCleansUp(t *testing.T) {
	var pathDuringSend string
	var existedDuringSend bool
	sender := &fakeSender{
		sendErr: func(c tgbotapi.Chattable) error {
			pathDuringSend = chattableFilePath(t, c)
			_, statErr := os.Stat(pathDuringSend)
			existedDuringSend = statErr == nil
			return nil
		},
	}

	asset := &media.Asset{Bytes: []byte("fake video bytes"), SourceURL: "https://host.example.com/clips/v.webm"}
	require.NoError(t, testDeliverer(sender).DeliverVideo(7, asset))

	require.Len(t, sender.sent, 1)
	_, isVideo := sender.sent[0].(tgbotapi.VideoConfig)
	assert.True(t, isVideo)

	assert.True(t, existedDuringSend, "staged file must exist while sending")
	assert.True(t, strings.HasSuffix(pathDuringSend, ".webm"), "source extension is kept")
	_, statErr := os.Stat(pathDuringSend)
	assert.True(t, os.IsNotExist(statErr), "staged file must be removed after delivery")
}

func TestDeliverVideoRetriesAsDocument(t *testing.T) {
	var stagedPath string
	sender := &fakeSender{
		sendErr: func(c tgbotapi.Chattable) error {
			stagedPath = chattableFilePath(t, c)
			if _, isVideo := c.(tgbotapi.VideoConfig); isVideo {
				return errors.New("video too weird for telegram")
			}
			return nil
		},
	}

	asset := &media.Asset{Bytes: []byte("bytes"), SourceURL: "https://host.example.com/v.mp4"}
	require.NoError(t, testDeliverer(sender).DeliverVideo(7, asset))

	require.Len(t, sender.sent, 1)
	_, isDoc := sender.sent[0].(tgbotapi.DocumentConfig)
	assert.True(t, isDoc, "failed video send falls back to a document")

	_, statErr := os.Stat(stagedPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDeliverVideoCleansUpWhenEverythingFails(t *testing.T) {
	var stagedPath string
	sender := &fakeSender{
		sendErr: func(c tgbotapi.Chattable) error {
			stagedPath = chattableFilePath(t, c)
			return errors.New("telegram is down")
		},
	}

	asset := &media.Asset{Bytes: []byte("bytes"), SourceURL: "https://host.example.com/v.mp4"}
	err := testDeliverer(sender).DeliverVideo(7, asset)
	require.Error(t, err)

	require.NotEmpty(t, stagedPath)
	_, statErr := os.Stat(stagedPath)
	assert.True(t, os.IsNotExist(statErr), "staged file must be removed even when both sends fail")
}

func TestTempVideoName(t *testing.T) {
	assert.True(t, strings.HasSuffix(tempVideoName("https://h/clip.webm"), ".webm"))
	assert.True(t, strings.HasSuffix(tempVideoName("https://h/clip.mov"), ".mov"))
	assert.True(t, strings.HasSuffix(tempVideoName("https://h/clip"), ".mp4"), "unknown extension defaults to mp4")
	assert.True(t, strings.HasSuffix(tempVideoName("https://h/stream.m3u8"), ".mp4"), "playlist extension is not a container")
	assert.True(t, strings.HasPrefix(tempVideoName("https://h/clip.webm"), "temp_video_"))
}
