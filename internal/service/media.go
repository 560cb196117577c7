package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/errors"
	"github.com/3mero/edarh-server/internal/id"
	"github.com/3mero/edarh-server/internal/media"
	"github.com/3mero/edarh-server/internal/store"
)

// MediaService manages image and audio attachments for tracker items.
// Metadata lives in the store; payloads live in the two filesystem storages.
type MediaService struct {
	store     *store.Store
	images    *media.Storage
	audio     *media.Storage
	processor *media.Processor
	logger    *slog.Logger

	now func() time.Time
}

// NewMediaService creates a new media service.
func NewMediaService(store *store.Store, images, audio *media.Storage, processor *media.Processor, logger *slog.Logger) *MediaService {
	return &MediaService{
		store:     store,
		images:    images,
		audio:     audio,
		processor: processor,
		logger:    logger,
		now:       time.Now,
	}
}

// ImageView is the client-facing shape of one stored image. URL is transient
// and regenerated per response.
type ImageView struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	BlurHash  string `json:"blurHash,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// AudioView is the client-facing shape of one stored voice note.
type AudioView struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Title     string `json:"title"`
	Size      int64  `json:"size"`
	Timestamp int64  `json:"timestamp"`
}

// Usage summarizes stored payload sizes in bytes.
type Usage struct {
	Images int64 `json:"images"`
	Audio  int64 `json:"audio"`
	Total  int64 `json:"total"`
}

func imageURL(id string) string {
	return "/api/v1/media/images/" + id + "/file"
}

func audioURL(id string) string {
	return "/api/v1/media/audio/" + id + "/file"
}

func imageFileName(id string) string {
	return id + ".jpg"
}

func audioFileName(id, ext string) string {
	return id + ext
}

// SaveImage recompresses an uploaded image and attaches it to an owner.
// The original bytes are discarded; only the JPEG rendition is stored.
func (s *MediaService) SaveImage(ctx context.Context, owner, name string, data []byte) (*ImageView, error) {
	if owner == "" {
		return nil, errors.Validation("owner is required")
	}
	if len(data) == 0 {
		return nil, errors.Validation("image payload is empty")
	}

	processed, err := s.processor.Process(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidation, "unsupported or corrupt image")
	}

	imageID, err := id.Generate(id.PrefixImage)
	if err != nil {
		return nil, fmt.Errorf("generate image ID: %w", err)
	}

	if err := s.images.Save(imageFileName(imageID), processed.Data); err != nil {
		return nil, fmt.Errorf("save image payload: %w", err)
	}

	rec := &store.ImageRecord{
		ID:        imageID,
		Owner:     owner,
		Name:      name,
		MimeType:  "image/jpeg",
		Size:      int64(len(processed.Data)),
		Width:     processed.Width,
		Height:    processed.Height,
		BlurHash:  processed.BlurHash,
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.store.SaveImage(ctx, rec); err != nil {
		// Roll back the orphaned payload.
		_ = s.images.Delete(imageFileName(imageID))
		return nil, fmt.Errorf("save image record: %w", err)
	}

	s.logger.Info("saved image",
		"image_id", imageID,
		"owner", owner,
		"bytes", rec.Size,
		"width", rec.Width,
		"height", rec.Height,
	)
	return imageViewOf(rec), nil
}

// ListImages returns all images attached to an owner, oldest first.
func (s *MediaService) ListImages(ctx context.Context, owner string) ([]ImageView, error) {
	records, err := s.store.ListImagesByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	views := make([]ImageView, 0, len(records))
	for i := range records {
		views = append(views, *imageViewOf(&records[i]))
	}
	return views, nil
}

// Refs returns the lightweight references an item embeds for its media,
// oldest first. The authoritative records stay in the store.
func (s *MediaService) Refs(ctx context.Context, owner string) ([]domain.ImageRef, []domain.AudioRef, error) {
	imageRecords, err := s.store.ListImagesByOwner(ctx, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("list images: %w", err)
	}
	audioRecords, err := s.store.ListAudioByOwner(ctx, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("list audio: %w", err)
	}

	var imageRefs []domain.ImageRef
	for _, rec := range imageRecords {
		imageRefs = append(imageRefs, domain.ImageRef{
			ID:        rec.ID,
			Name:      rec.Name,
			Size:      rec.Size,
			Timestamp: rec.Timestamp,
		})
	}
	var audioRefs []domain.AudioRef
	for _, rec := range audioRecords {
		audioRefs = append(audioRefs, domain.AudioRef{
			ID:        rec.ID,
			Title:     rec.Title,
			Size:      rec.Size,
			Timestamp: rec.Timestamp,
		})
	}
	return imageRefs, audioRefs, nil
}

// GetImageFile returns an image's metadata and JPEG payload.
func (s *MediaService) GetImageFile(ctx context.Context, imageID string) (*store.ImageRecord, []byte, error) {
	rec, err := s.store.GetImage(ctx, imageID)
	if err != nil {
		return nil, nil, mapStoreErr(err)
	}

	data, err := s.images.Get(imageFileName(imageID))
	if err != nil {
		return nil, nil, errors.NotFoundf("image payload %s", imageID).WithCause(err)
	}
	return rec, data, nil
}

// DeleteImage removes an image and its payload. Unknown IDs are a no-op.
func (s *MediaService) DeleteImage(ctx context.Context, imageID string) error {
	rec, err := s.store.DeleteImage(ctx, imageID)
	if err != nil {
		return fmt.Errorf("delete image record: %w", err)
	}
	if rec == nil {
		return nil
	}

	if err := s.images.Delete(imageFileName(imageID)); err != nil {
		return fmt.Errorf("delete image payload: %w", err)
	}
	s.logger.Info("deleted image", "image_id", imageID, "owner", rec.Owner)
	return nil
}

// SaveAudio stores a voice note verbatim and attaches it to an owner.
func (s *MediaService) SaveAudio(ctx context.Context, owner, title, mimeType string, data []byte) (*AudioView, error) {
	if owner == "" {
		return nil, errors.Validation("owner is required")
	}
	if len(data) == 0 {
		return nil, errors.Validation("audio payload is empty")
	}

	ext := audioExt(mimeType)

	audioID, err := id.Generate(id.PrefixAudio)
	if err != nil {
		return nil, fmt.Errorf("generate audio ID: %w", err)
	}

	if err := s.audio.Save(audioFileName(audioID, ext), data); err != nil {
		return nil, fmt.Errorf("save audio payload: %w", err)
	}

	rec := &store.AudioRecord{
		ID:        audioID,
		Owner:     owner,
		Title:     title,
		MimeType:  mimeType,
		Ext:       ext,
		Size:      int64(len(data)),
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.store.SaveAudio(ctx, rec); err != nil {
		_ = s.audio.Delete(audioFileName(audioID, ext))
		return nil, fmt.Errorf("save audio record: %w", err)
	}

	s.logger.Info("saved audio",
		"audio_id", audioID,
		"owner", owner,
		"bytes", rec.Size,
		"mime_type", mimeType,
	)
	return audioViewOf(rec), nil
}

// ListAudio returns all voice notes attached to an owner, oldest first.
func (s *MediaService) ListAudio(ctx context.Context, owner string) ([]AudioView, error) {
	records, err := s.store.ListAudioByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list audio: %w", err)
	}

	views := make([]AudioView, 0, len(records))
	for i := range records {
		views = append(views, *audioViewOf(&records[i]))
	}
	return views, nil
}

// GetAudioFile returns a voice note's metadata and payload.
func (s *MediaService) GetAudioFile(ctx context.Context, audioID string) (*store.AudioRecord, []byte, error) {
	rec, err := s.store.GetAudio(ctx, audioID)
	if err != nil {
		return nil, nil, mapStoreErr(err)
	}

	data, err := s.audio.Get(audioFileName(audioID, rec.Ext))
	if err != nil {
		return nil, nil, errors.NotFoundf("audio payload %s", audioID).WithCause(err)
	}
	return rec, data, nil
}

// DeleteAudio removes a voice note and its payload. Unknown IDs are a no-op.
func (s *MediaService) DeleteAudio(ctx context.Context, audioID string) error {
	rec, err := s.store.DeleteAudio(ctx, audioID)
	if err != nil {
		return fmt.Errorf("delete audio record: %w", err)
	}
	if rec == nil {
		return nil
	}

	if err := s.audio.Delete(audioFileName(audioID, rec.Ext)); err != nil {
		return fmt.Errorf("delete audio payload: %w", err)
	}
	s.logger.Info("deleted audio", "audio_id", audioID, "owner", rec.Owner)
	return nil
}

// DeleteByOwner removes every image and voice note attached to an owner.
func (s *MediaService) DeleteByOwner(ctx context.Context, owner string) error {
	images, audio, err := s.store.DeleteMediaByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("delete media records: %w", err)
	}

	for _, rec := range images {
		if err := s.images.Delete(imageFileName(rec.ID)); err != nil {
			return fmt.Errorf("delete image payload: %w", err)
		}
	}
	for _, rec := range audio {
		if err := s.audio.Delete(audioFileName(rec.ID, rec.Ext)); err != nil {
			return fmt.Errorf("delete audio payload: %w", err)
		}
	}

	if len(images) > 0 || len(audio) > 0 {
		s.logger.Info("deleted owner media",
			"owner", owner,
			"images", len(images),
			"audio", len(audio),
		)
	}
	return nil
}

// ClearAll drops every media record and payload.
func (s *MediaService) ClearAll(ctx context.Context) error {
	images, audio, err := s.store.ClearAllMedia(ctx)
	if err != nil {
		return fmt.Errorf("clear media records: %w", err)
	}
	if err := s.images.RemoveAll(); err != nil {
		return err
	}
	if err := s.audio.RemoveAll(); err != nil {
		return err
	}

	s.logger.Info("cleared all media", "images", images, "audio", audio)
	return nil
}

// StorageUsage sums the stored payload sizes.
func (s *MediaService) StorageUsage(ctx context.Context) (*Usage, error) {
	imageBytes, audioBytes, err := s.store.MediaUsage(ctx)
	if err != nil {
		return nil, err
	}
	return &Usage{
		Images: imageBytes,
		Audio:  audioBytes,
		Total:  imageBytes + audioBytes,
	}, nil
}

func imageViewOf(rec *store.ImageRecord) *ImageView {
	return &ImageView{
		ID:        rec.ID,
		URL:       imageURL(rec.ID),
		Name:      rec.Name,
		Size:      rec.Size,
		Width:     rec.Width,
		Height:    rec.Height,
		BlurHash:  rec.BlurHash,
		Timestamp: rec.Timestamp,
	}
}

func audioViewOf(rec *store.AudioRecord) *AudioView {
	return &AudioView{
		ID:        rec.ID,
		URL:       audioURL(rec.ID),
		Title:     rec.Title,
		Size:      rec.Size,
		Timestamp: rec.Timestamp,
	}
}

// audioExt picks a file extension for an uploaded voice note. Falls back to
// .bin for unknown MIME types; the stored MIME type still drives playback.
func audioExt(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "audio/webm":
		return ".webm"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// mapStoreErr converts store errors to domain errors at the service boundary.
func mapStoreErr(err error) error {
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		switch storeErr.Code {
		case store.ErrNotFound.Code:
			return errors.NotFound(storeErr.Message)
		case store.ErrInvalidInput.Code:
			return errors.Validation(storeErr.Message)
		}
	}
	return err
}
