package api

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/3mero/edarh-server/internal/http/response"
	"github.com/3mero/edarh-server/internal/service"
)

func (s *Server) registerMediaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadItemImage",
		Method:       http.MethodPost,
		Path:         "/api/v1/tracker/items/{number}/images",
		Summary:      "Attach an image to an item",
		Description:  "Recompresses the upload into a bounded JPEG and stores it",
		Tags:         []string{"Media"},
		MaxBodyBytes: s.uploadMaxBytes,
		Middlewares:  huma.Middlewares{s.uploadRateLimit},
	}, s.handleUploadItemImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "listItemImages",
		Method:      http.MethodGet,
		Path:        "/api/v1/tracker/items/{number}/images",
		Summary:     "List an item's images",
		Tags:        []string{"Media"},
	}, s.handleListItemImages)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteImage",
		Method:      http.MethodDelete,
		Path:        "/api/v1/media/images/{id}",
		Summary:     "Delete an image",
		Description: "Removes an image and its payload. Unknown IDs are a no-op.",
		Tags:        []string{"Media"},
	}, s.handleDeleteImage)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadItemAudio",
		Method:       http.MethodPost,
		Path:         "/api/v1/tracker/items/{number}/audio",
		Summary:      "Attach a voice note to an item",
		Description:  "Stores the uploaded audio verbatim",
		Tags:         []string{"Media"},
		MaxBodyBytes: s.uploadMaxBytes,
		Middlewares:  huma.Middlewares{s.uploadRateLimit},
	}, s.handleUploadItemAudio)

	huma.Register(s.api, huma.Operation{
		OperationID: "listItemAudio",
		Method:      http.MethodGet,
		Path:        "/api/v1/tracker/items/{number}/audio",
		Summary:     "List an item's voice notes",
		Tags:        []string{"Media"},
	}, s.handleListItemAudio)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAudio",
		Method:      http.MethodDelete,
		Path:        "/api/v1/media/audio/{id}",
		Summary:     "Delete a voice note",
		Tags:        []string{"Media"},
	}, s.handleDeleteAudio)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMediaUsage",
		Method:      http.MethodGet,
		Path:        "/api/v1/media/usage",
		Summary:     "Get media storage usage",
		Tags:        []string{"Media"},
	}, s.handleMediaUsage)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearMedia",
		Method:      http.MethodDelete,
		Path:        "/api/v1/media",
		Summary:     "Delete all media",
		Tags:        []string{"Media"},
	}, s.handleClearMedia)

	// Direct chi routes for payload streaming; huma stays out of the byte path.
	s.router.Get("/api/v1/media/images/{id}/file", s.handleServeImage)
	s.router.Get("/api/v1/media/audio/{id}/file", s.handleServeAudio)
}

// === DTOs ===

type UploadImageInput struct {
	Number  int    `path:"number" minimum:"1" doc:"Item number"`
	Name    string `query:"name" doc:"Display name for the image"`
	RawBody []byte
}

// ImageOutput wraps one image view for Huma.
type ImageOutput struct {
	Body service.ImageView
}

type ListImagesInput struct {
	Number int `path:"number" minimum:"1" doc:"Item number"`
}

type ImageListOutput struct {
	Body struct {
		Images []service.ImageView `json:"images"`
	}
}

type DeleteMediaInput struct {
	ID string `path:"id" doc:"Media ID"`
}

type UploadAudioInput struct {
	Number      int    `path:"number" minimum:"1" doc:"Item number"`
	Title       string `query:"title" doc:"Display title for the voice note"`
	ContentType string `header:"Content-Type" doc:"Audio MIME type, e.g. audio/webm"`
	RawBody     []byte
}

// AudioOutput wraps one voice note view for Huma.
type AudioOutput struct {
	Body service.AudioView
}

type AudioListOutput struct {
	Body struct {
		Audio []service.AudioView `json:"audio"`
	}
}

// UsageOutput wraps storage usage for Huma.
type UsageOutput struct {
	Body service.Usage
}

// === Handlers ===

func (s *Server) handleUploadItemImage(ctx context.Context, input *UploadImageInput) (*ImageOutput, error) {
	owner, err := s.ownerKeyFor(ctx, input.Number)
	if err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" {
		name = fmt.Sprintf("image-%d.jpg", input.Number)
	}

	view, err := s.services.Media.SaveImage(ctx, owner, name, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &ImageOutput{Body: *view}, nil
}

func (s *Server) handleListItemImages(ctx context.Context, input *ListImagesInput) (*ImageListOutput, error) {
	owner, err := s.ownerKeyFor(ctx, input.Number)
	if err != nil {
		return nil, err
	}

	views, err := s.services.Media.ListImages(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := &ImageListOutput{}
	out.Body.Images = views
	return out, nil
}

func (s *Server) handleDeleteImage(ctx context.Context, input *DeleteMediaInput) (*MessageOutput, error) {
	if err := s.services.Media.DeleteImage(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("image %s deleted", input.ID), nil
}

func (s *Server) handleUploadItemAudio(ctx context.Context, input *UploadAudioInput) (*AudioOutput, error) {
	owner, err := s.ownerKeyFor(ctx, input.Number)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = fmt.Sprintf("voice-note-%d", input.Number)
	}

	view, err := s.services.Media.SaveAudio(ctx, owner, title, input.ContentType, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &AudioOutput{Body: *view}, nil
}

func (s *Server) handleListItemAudio(ctx context.Context, input *ListImagesInput) (*AudioListOutput, error) {
	owner, err := s.ownerKeyFor(ctx, input.Number)
	if err != nil {
		return nil, err
	}

	views, err := s.services.Media.ListAudio(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := &AudioListOutput{}
	out.Body.Audio = views
	return out, nil
}

func (s *Server) handleDeleteAudio(ctx context.Context, input *DeleteMediaInput) (*MessageOutput, error) {
	if err := s.services.Media.DeleteAudio(ctx, input.ID); err != nil {
		return nil, err
	}
	return messageOutput("audio %s deleted", input.ID), nil
}

func (s *Server) handleMediaUsage(ctx context.Context, _ *struct{}) (*UsageOutput, error) {
	usage, err := s.services.Media.StorageUsage(ctx)
	if err != nil {
		return nil, err
	}
	return &UsageOutput{Body: *usage}, nil
}

func (s *Server) handleClearMedia(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Media.ClearAll(ctx); err != nil {
		return nil, err
	}
	return messageOutput("all media deleted"), nil
}

// === Payload streaming ===

// handleServeImage streams an image payload with cache validation headers.
func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, data, err := s.services.Media.GetImageFile(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	serveMediaBytes(w, r, rec.MimeType, rec.Timestamp, data)
}

// handleServeAudio streams a voice note payload.
func (s *Server) handleServeAudio(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, data, err := s.services.Media.GetAudioFile(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	serveMediaBytes(w, r, rec.MimeType, rec.Timestamp, data)
}

// serveMediaBytes writes a payload with ETag/Last-Modified caching. Media
// payloads are immutable, so a week of client caching is safe.
func serveMediaBytes(w http.ResponseWriter, r *http.Request, mimeType string, timestamp int64, data []byte) {
	etag := fmt.Sprintf("%q", fmt.Sprintf("%x", sha256.Sum256(data)))

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=604800")
	w.Header().Set("Last-Modified", time.UnixMilli(timestamp).UTC().Format(http.TimeFormat))

	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
