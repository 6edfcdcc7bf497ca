package bot

import (
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makar2108/telegram-bot/config"
	"github.com/makar2108/telegram-bot/media"
)

// fakeSender records every send instead of talking to Telegram.
type fakeSender struct {
	sent    []tgbotapi.Chattable
	groups  []tgbotapi.MediaGroupConfig
	sendErr func(c tgbotapi.Chattable) error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		if err := f.sendErr(c); err != nil {
			return tgbotapi.Message{}, err
		}
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	f.groups = append(f.groups, cfg)
	return nil, nil
}

func testDeliverer(sender Sender) *Deliverer {
	return NewDeliverer(sender, config.Config{GroupPacingMs: 1, DocumentPacingMs: 1})
}

func photos(n int) []media.Normalized {
	items := make([]media.Normalized, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, media.Normalized{
			Data:     []byte{byte(i)},
			Filename: fmt.Sprintf("photo_%d.jpg", i),
		})
	}
	return items
}

func TestDeliverSinglePhoto(t *testing.T) {
	sender := &fakeSender{}
	sentPhotos, sentDocs := testDeliverer(sender).DeliverPhotos(7, photos(1))

	assert.Equal(t, 1, sentPhotos)
	assert.Equal(t, 0, sentDocs)
	require.Len(t, sender.sent, 1)
	assert.Empty(t, sender.groups, "a lone photo never goes as an album")
	_, isPhoto := sender.sent[0].(tgbotapi.PhotoConfig)
	assert.True(t, isPhoto)
}

func TestDeliverOneAlbum(t *testing.T) {
	sender := &fakeSender{}
	sentPhotos, _ := testDeliverer(sender).DeliverPhotos(7, photos(7))

	assert.Equal(t, 7, sentPhotos)
	require.Len(t, sender.groups, 1)
	assert.Len(t, sender.groups[0].Media, 7)
	assert.Empty(t, sender.sent)
}

func TestDeliverLargeSetSplitsIntoAlbums(t *testing.T) {
	sender := &fakeSender{}
	sentPhotos, _ := testDeliverer(sender).DeliverPhotos(7, photos(23))

	assert.Equal(t, 23, sentPhotos)
	require.Len(t, sender.groups, 3)
	assert.Len(t, sender.groups[0].Media, 10)
	assert.Len(t, sender.groups[1].Media, 10)
	assert.Len(t, sender.groups[2].Media, 3)
}

func TestDeliverTrailingSingleGoesAsPhoto(t *testing.T) {
	sender := &fakeSender{}
	sentPhotos, _ := testDeliverer(sender).DeliverPhotos(7, photos(11))

	assert.Equal(t, 11, sentPhotos)
	require.Len(t, sender.groups, 1)
	assert.Len(t, sender.groups[0].Media, 10)
	require.Len(t, sender.sent, 1)
	_, isPhoto := sender.sent[0].(tgbotapi.PhotoConfig)
	assert.True(t, isPhoto, "an album of one is sent as a plain photo")
}

func TestDeliverDocumentFallbacksAfterPhotos(t *testing.T) {
	items := photos(2)
	items = append(items,
		media.Normalized{Data: []byte{9}, Filename: "photo_3.webp", Document: true},
		media.Normalized{Data: []byte{8}, Filename: "photo_4.gif", Document: true},
	)

	sender := &fakeSender{}
	sentPhotos, sentDocs := testDeliverer(sender).DeliverPhotos(7, items)

	assert.Equal(t, 2, sentPhotos)
	assert.Equal(t, 2, sentDocs)
	require.Len(t, sender.groups, 1)
	require.Len(t, sender.sent, 2)
	for _, c := range sender.sent {
		_, isDoc := c.(tgbotapi.DocumentConfig)
		assert.True(t, isDoc)
	}
}

func TestDeliverOneFailedDocumentDoesNotBlockTheRest(t *testing.T) {
	items := []media.Normalized{
		{Data: []byte{1}, Filename: "photo_1.webp", Document: true},
		{Data: []byte{2}, Filename: "photo_2.webp", Document: true},
		{Data: []byte{3}, Filename: "photo_3.webp", Document: true},
	}

	failures := 0
	sender := &fakeSender{
		sendErr: func(c tgbotapi.Chattable) error {
			doc, ok := c.(tgbotapi.DocumentConfig)
			if !ok {
				return nil
			}
			if file, ok := doc.File.(tgbotapi.FileBytes); ok && file.Name == "photo_2.webp" {
				failures++
				return errors.New("telegram said no")
			}
			return nil
		},
	}

	_, sentDocs := testDeliverer(sender).DeliverPhotos(7, items)

	assert.Equal(t, 2, sentDocs)
	assert.Equal(t, 1, failures)
	assert.Len(t, sender.sent, 2)
}

func TestPartition(t *testing.T) {
	assert.Nil(t, partition(nil, 10))

	chunks := partition(photos(25), 10)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 5)
	assert.Equal(t, "photo_1.jpg", chunks[0][0].Filename)
	assert.Equal(t, "photo_25.jpg", chunks[2][4].Filename)
}
