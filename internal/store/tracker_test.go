package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/store"
)

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tracker-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestList_SaveAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	items := domain.Generate(1, 60, domain.Days[0])
	require.NoError(t, s.SaveList(ctx, domain.ModeHizb, items))

	got, err := s.GetList(ctx, domain.ModeHizb)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestList_MissingReturnsNil(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := s.GetList(context.Background(), domain.ModeJuz)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestList_ModesAreIndependent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	hizb := domain.Generate(1, 60, domain.Days[0])
	juz := domain.Generate(1, 30, domain.Days[3])
	require.NoError(t, s.SaveList(ctx, domain.ModeHizb, hizb))
	require.NoError(t, s.SaveList(ctx, domain.ModeJuz, juz))

	gotHizb, err := s.GetList(ctx, domain.ModeHizb)
	require.NoError(t, err)
	gotJuz, err := s.GetList(ctx, domain.ModeJuz)
	require.NoError(t, err)

	assert.Len(t, gotHizb, 60)
	assert.Len(t, gotJuz, 30)
	assert.Equal(t, domain.Days[3], gotJuz[0].Day)
}

func TestList_ReplaceIsAtomicWholeList(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.SaveList(ctx, domain.ModeHizb, domain.Generate(1, 60, domain.Days[0])))
	require.NoError(t, s.SaveList(ctx, domain.ModeHizb, domain.Generate(5, 12, domain.Days[0])))

	got, err := s.GetList(ctx, domain.ModeHizb)
	require.NoError(t, err)
	require.Len(t, got, 8)
	assert.Equal(t, 5, got[0].Number)
}

func TestList_InvalidMode(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetList(context.Background(), domain.Mode("surah"))
	assert.Error(t, err)

	err = s.SaveList(context.Background(), domain.Mode(""), nil)
	assert.Error(t, err)
}

func TestMode_DefaultsToHizb(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	mode, err := s.GetMode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ModeHizb, mode)
}

func TestMode_SetAndGet(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.SetMode(ctx, domain.ModeJuz))

	mode, err := s.GetMode(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeJuz, mode)
}

func TestMode_RejectsUnknown(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.SetMode(context.Background(), domain.Mode("surah"))
	require.Error(t, err)

	var storeErr *store.Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, store.ErrInvalidInput.Code, storeErr.Code)
}
