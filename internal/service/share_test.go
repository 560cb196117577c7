package service

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/errors"
)

func setupShare(t *testing.T) (*TrackerService, *ShareService) {
	t.Helper()

	tracker, _ := setupServices(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return tracker, NewShareService(tracker, log)
}

func TestBuildShare_NothingCompleted(t *testing.T) {
	_, share := setupShare(t)

	_, err := share.BuildShare(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestBuildShare_BatchRange(t *testing.T) {
	tracker, share := setupShare(t)
	ctx := context.Background()

	_, err := tracker.CompleteBatch(ctx, 1, 5)
	require.NoError(t, err)

	result, err := share.BuildShare(ctx)
	require.NoError(t, err)

	assert.Contains(t, result.Message, "تم بحمد الله وتوفيقه إكمال الأحزاب من 1 إلى 5.")
	assert.Contains(t, result.Message, "آخر قراءة وحفظ كانت في يوم الأحد")
	assert.Contains(t, result.Message, "بتاريخ 01/09/2026")
	assert.Contains(t, result.Message, "والساعة 10:30")
	assert.Contains(t, result.Message, "الأحزاب المتبقية: 55.")
}

func TestBuildShare_SingleItem(t *testing.T) {
	tracker, share := setupShare(t)
	ctx := context.Background()

	_, err := tracker.CompleteBatch(ctx, 1, 1)
	require.NoError(t, err)

	result, err := share.BuildShare(ctx)
	require.NoError(t, err)
	assert.Contains(t, result.Message, "الحزب رقم 1.")
	assert.NotContains(t, result.Message, "من 1 إلى")
}

func TestBuildShare_JuzWording(t *testing.T) {
	tracker, share := setupShare(t)
	ctx := context.Background()

	_, err := tracker.SetMode(ctx, domain.ModeJuz)
	require.NoError(t, err)
	_, err = tracker.CompleteBatch(ctx, 1, 3)
	require.NoError(t, err)

	result, err := share.BuildShare(ctx)
	require.NoError(t, err)
	assert.Contains(t, result.Message, "الأجزاء من 1 إلى 3.")
	assert.Contains(t, result.Message, "الأجزاء المتبقية: 27.")
}

func TestBuildShare_URL(t *testing.T) {
	tracker, share := setupShare(t)
	ctx := context.Background()

	_, err := tracker.CompleteBatch(ctx, 1, 2)
	require.NoError(t, err)

	result, err := share.BuildShare(ctx)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(result.URL, "https://wa.me/?text="))
	assert.NotContains(t, result.URL, "+", "spaces must be percent-encoded")

	// The encoded text round-trips to the plain message.
	decoded, err := url.QueryUnescape(strings.TrimPrefix(result.URL, "https://wa.me/?text="))
	require.NoError(t, err)
	assert.Equal(t, result.Message, decoded)
}

func TestShareMessage_UsesMostRecentBatch(t *testing.T) {
	tracker, share := setupShare(t)
	ctx := context.Background()

	_, err := tracker.CompleteBatch(ctx, 1, 5)
	require.NoError(t, err)
	_, err = tracker.CompleteBatch(ctx, 6, 2)
	require.NoError(t, err)

	result, err := share.BuildShare(ctx)
	require.NoError(t, err)
	assert.Contains(t, result.Message, "من 6 إلى 7.")
	assert.Contains(t, result.Message, "المتبقية: 53.")
}
