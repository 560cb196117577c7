package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/service"
)

func TestGetTracker_CreatesDefaultList(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/tracker")
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	assert.Equal(t, domain.ModeHizb, snap.Mode)
	require.Len(t, snap.Items, 60)
	assert.Equal(t, 1, snap.Items[0].Number)
	assert.Equal(t, domain.Days[0], snap.Items[0].Day)
	assert.Equal(t, 60, snap.Stats.RemainingCount)
}

func TestSetMode(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Put("/api/v1/tracker/mode", map[string]any{"mode": "juz"})
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	assert.Equal(t, domain.ModeJuz, snap.Mode)
	assert.Len(t, snap.Items, 30)

	// Huma rejects values outside the enum before the handler runs.
	resp = ts.api.Put("/api/v1/tracker/mode", map[string]any{"mode": "surah"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGenerateList(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tracker/generate", map[string]any{
		"from":     10,
		"to":       20,
		"firstDay": domain.Days[3],
	})
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	require.Len(t, snap.Items, 11)
	assert.Equal(t, 10, snap.Items[0].Number)
	assert.Equal(t, domain.Days[3], snap.Items[0].Day)
	assert.Equal(t, domain.Days[4], snap.Items[1].Day)
}

func TestGenerateList_Validation(t *testing.T) {
	ts := setupTestServer(t)

	// to below from fails the cross-field check.
	resp := ts.api.Post("/api/v1/tracker/generate", map[string]any{
		"from":     10,
		"to":       5,
		"firstDay": domain.Days[0],
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	apiErr := decodeBody[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)

	// Unknown day name is rejected by the service.
	resp = ts.api.Post("/api/v1/tracker/generate", map[string]any{
		"from":     1,
		"to":       5,
		"firstDay": "Sunday",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCompleteBatch(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tracker/complete", map[string]any{
		"startNumber": 1,
		"count":       3,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	require.Len(t, snap.Items, 60)

	first := snap.Items[0]
	assert.True(t, first.Completed)
	assert.NotEmpty(t, first.CompletionBatchID)
	assert.NotEmpty(t, first.CompletedTime)
	assert.Len(t, first.BatchColor, 7)

	// All members share the batch and collapse onto the start day.
	for _, it := range snap.Items[:3] {
		assert.Equal(t, first.CompletionBatchID, it.CompletionBatchID)
		assert.Equal(t, first.Day, it.Day)
	}
	assert.False(t, snap.Items[3].Completed)

	assert.Equal(t, 3, snap.Stats.CompletedCount)
	assert.Equal(t, 57, snap.Stats.RemainingCount)
	require.NotNil(t, snap.Stats.LastCompleted)
	assert.Equal(t, 3, snap.Stats.LastCompleted.Number)
}

func TestCompleteBatch_Errors(t *testing.T) {
	ts := setupTestServer(t)

	// An unknown start item leaves the state untouched.
	resp := ts.api.Post("/api/v1/tracker/complete", map[string]any{
		"startNumber": 999,
		"count":       1,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	assert.Zero(t, snap.Stats.CompletedCount)

	// Count overruns the remaining items.
	resp = ts.api.Post("/api/v1/tracker/complete", map[string]any{
		"startNumber": 58,
		"count":       10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	apiErr := decodeBody[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)
}

func TestUndoBatch(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tracker/complete", map[string]any{
		"startNumber": 1,
		"count":       5,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/tracker/undo", map[string]any{
		"numbers": []int{1, 2, 3, 4, 5},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	for _, it := range snap.Items[:5] {
		assert.False(t, it.Completed)
		assert.Empty(t, it.CompletionBatchID)
		assert.Empty(t, it.CompletedTime)
	}
	assert.Equal(t, 0, snap.Stats.CompletedCount)
}

func TestUpdateItem(t *testing.T) {
	ts := setupTestServer(t)

	// Seed the default list.
	require.Equal(t, http.StatusOK, ts.api.Get("/api/v1/tracker").Code)

	resp := ts.api.Put("/api/v1/tracker/items/5", map[string]any{
		"note":  "مراجعة",
		"color": "#ff8800",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	item := snap.Items[4]
	assert.Equal(t, 5, item.Number)
	assert.Equal(t, "مراجعة", item.Note)
	assert.Equal(t, "#ff8800", item.Color)
	// Omitted day keeps the scheduled one.
	assert.Equal(t, domain.Days[4], item.Day)

	resp = ts.api.Put("/api/v1/tracker/items/999", map[string]any{"note": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetStats(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tracker/complete", map[string]any{
		"startNumber": 1,
		"count":       2,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/tracker/stats")
	require.Equal(t, http.StatusOK, resp.Code)

	stats := decodeBody[domain.Stats](t, resp.Body.Bytes())
	assert.Equal(t, 2, stats.CompletedCount)
	assert.Equal(t, 58, stats.RemainingCount)
	require.NotNil(t, stats.LastCompleted)
	assert.Equal(t, 2, stats.LastCompleted.Number)
}

func TestResetTracker(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tracker/complete", map[string]any{
		"startNumber": 1,
		"count":       10,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/tracker/reset")
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	require.Len(t, snap.Items, 60)
	assert.Equal(t, 0, snap.Stats.CompletedCount)
	assert.False(t, snap.Items[0].Completed)
}

func TestModesAreIndependent(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tracker/complete", map[string]any{
		"startNumber": 1,
		"count":       4,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Put("/api/v1/tracker/mode", map[string]any{"mode": "juz"})
	require.Equal(t, http.StatusOK, resp.Code)

	snap := decodeBody[service.Snapshot](t, resp.Body.Bytes())
	assert.Equal(t, 0, snap.Stats.CompletedCount)

	// Switching back restores the hizb progress.
	resp = ts.api.Put("/api/v1/tracker/mode", map[string]any{"mode": "hizb"})
	require.Equal(t, http.StatusOK, resp.Code)

	snap = decodeBody[service.Snapshot](t, resp.Body.Bytes())
	assert.Equal(t, 4, snap.Stats.CompletedCount)
}
