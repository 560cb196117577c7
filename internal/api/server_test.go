package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/3mero/edarh-server/internal/config"
	"github.com/3mero/edarh-server/internal/media"
	"github.com/3mero/edarh-server/internal/service"
	"github.com/3mero/edarh-server/internal/store"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Name: "Edarh Test"},
		Media:  config.MediaConfig{MaxWidth: 1920, MaxHeight: 1080, JPEGQuality: 80},
		Upload: config.UploadConfig{
			MaxBytes: 32 << 20,
			// Effectively unlimited so ordinary tests never trip the limiter.
			RatePerSecond: 10000,
			Burst:         10000,
		},
	}
}

func setupTestServer(t *testing.T) *testServer {
	return setupTestServerWithConfig(t, testConfig())
}

func setupTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	base := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(base, "db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	images, err := media.NewStorage(base, "images")
	require.NoError(t, err)
	audio, err := media.NewStorage(base, "audio")
	require.NoError(t, err)

	processor := media.NewProcessor(cfg.Media.MaxWidth, cfg.Media.MaxHeight, cfg.Media.JPEGQuality, logger)
	mediaSvc := service.NewMediaService(st, images, audio, processor, logger)
	trackerSvc := service.NewTrackerService(st, mediaSvc, logger)
	shareSvc := service.NewShareService(trackerSvc, logger)

	server := NewServer(cfg, st, &Services{
		Tracker: trackerSvc,
		Media:   mediaSvc,
		Share:   shareSvc,
	}, logger)
	t.Cleanup(server.Close)

	return &testServer{
		Server: server,
		api:    humatest.Wrap(t, server.api),
	}
}

// decodeBody unmarshals a humatest response body into T.
func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	health := decodeBody[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, Version, health.Version)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
