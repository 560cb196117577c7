package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/3mero/edarh-server/internal/store"
)

func testImage(id, owner string, size int64) *store.ImageRecord {
	return &store.ImageRecord{
		ID:        id,
		Owner:     owner,
		Name:      "page.jpg",
		MimeType:  "image/jpeg",
		Size:      size,
		Width:     1280,
		Height:    720,
		BlurHash:  "LEHV6nWB2yk8pyo0adR*.7kCMdnj",
		Timestamp: 1756684800000,
	}
}

func testAudio(id, owner string, size int64) *store.AudioRecord {
	return &store.AudioRecord{
		ID:        id,
		Owner:     owner,
		Title:     "تلاوة",
		MimeType:  "audio/webm",
		Ext:       ".webm",
		Size:      size,
		Timestamp: 1756684800000,
	}
}

func TestImage_SaveGetDelete(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	rec := testImage("img-1", "hizb_5", 2048)
	require.NoError(t, s.SaveImage(ctx, rec))

	got, err := s.GetImage(ctx, "img-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	deleted, err := s.DeleteImage(ctx, "img-1")
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "hizb_5", deleted.Owner)

	_, err = s.GetImage(ctx, "img-1")
	require.Error(t, err)
	var storeErr *store.Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, store.ErrNotFound.Code, storeErr.Code)
}

func TestImage_DeleteUnknownIsNoop(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	deleted, err := s.DeleteImage(context.Background(), "img-missing")
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestImage_SaveWithoutOwnerRejected(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.SaveImage(context.Background(), &store.ImageRecord{ID: "img-1"})
	assert.Error(t, err)
}

func TestListImagesByOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for i := range 3 {
		rec := testImage(fmt.Sprintf("img-%d", i), "hizb_5", 100)
		rec.Timestamp = int64(1000 + i)
		require.NoError(t, s.SaveImage(ctx, rec))
	}
	require.NoError(t, s.SaveImage(ctx, testImage("img-other", "juz_5", 100)))

	records, err := s.ListImagesByOwner(ctx, "hizb_5")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Oldest first.
	assert.Equal(t, "img-0", records[0].ID)
	assert.Equal(t, "img-2", records[2].ID)
}

func TestListImagesByOwner_Empty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	records, err := s.ListImagesByOwner(context.Background(), "hizb_99")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAudio_SaveListDelete(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.SaveAudio(ctx, testAudio("aud-1", "juz_3", 512)))
	require.NoError(t, s.SaveAudio(ctx, testAudio("aud-2", "juz_3", 512)))

	records, err := s.ListAudioByOwner(ctx, "juz_3")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	deleted, err := s.DeleteAudio(ctx, "aud-1")
	require.NoError(t, err)
	require.NotNil(t, deleted)

	records, err = s.ListAudioByOwner(ctx, "juz_3")
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "aud-2", records[0].ID)
}

func TestDeleteMediaByOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.SaveImage(ctx, testImage("img-1", "hizb_5", 100)))
	require.NoError(t, s.SaveImage(ctx, testImage("img-2", "hizb_5", 100)))
	require.NoError(t, s.SaveAudio(ctx, testAudio("aud-1", "hizb_5", 100)))
	require.NoError(t, s.SaveImage(ctx, testImage("img-keep", "hizb_6", 100)))

	images, audio, err := s.DeleteMediaByOwner(ctx, "hizb_5")
	require.NoError(t, err)
	assert.Len(t, images, 2)
	assert.Len(t, audio, 1)

	remaining, err := s.ListImagesByOwner(ctx, "hizb_5")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	kept, err := s.GetImage(ctx, "img-keep")
	require.NoError(t, err)
	assert.Equal(t, "hizb_6", kept.Owner)
}

func TestClearAllMedia(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.SaveImage(ctx, testImage("img-1", "hizb_5", 100)))
	require.NoError(t, s.SaveImage(ctx, testImage("img-2", "juz_3", 100)))
	require.NoError(t, s.SaveAudio(ctx, testAudio("aud-1", "hizb_5", 100)))

	images, audio, err := s.ClearAllMedia(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, images)
	assert.Equal(t, 1, audio)

	records, err := s.ListImagesByOwner(ctx, "hizb_5")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMediaUsage(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	imageBytes, audioBytes, err := s.MediaUsage(ctx)
	require.NoError(t, err)
	assert.Zero(t, imageBytes)
	assert.Zero(t, audioBytes)

	require.NoError(t, s.SaveImage(ctx, testImage("img-1", "hizb_5", 1000)))
	require.NoError(t, s.SaveImage(ctx, testImage("img-2", "juz_3", 500)))
	require.NoError(t, s.SaveAudio(ctx, testAudio("aud-1", "hizb_5", 250)))

	imageBytes, audioBytes, err = s.MediaUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), imageBytes)
	assert.Equal(t, int64(250), audioBytes)
}
