package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/3mero/edarh-server/internal/config"
	"github.com/3mero/edarh-server/internal/logger"
	"github.com/3mero/edarh-server/internal/media"
)

// MediaStorages groups the payload stores for each media kind.
type MediaStorages struct {
	Images *media.Storage
	Audio  *media.Storage
}

// ProvideMediaStorages provides the media payload stores.
func ProvideMediaStorages(i do.Injector) (*MediaStorages, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	images, err := media.NewStorage(cfg.Storage.DataPath, "images")
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	audio, err := media.NewStorage(cfg.Storage.DataPath, "audio")
	if err != nil {
		return nil, fmt.Errorf("audio storage: %w", err)
	}

	log.Info("Media storages initialized")

	return &MediaStorages{
		Images: images,
		Audio:  audio,
	}, nil
}

// ProvideImageProcessor provides the image recompression processor.
func ProvideImageProcessor(i do.Injector) (*media.Processor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return media.NewProcessor(cfg.Media.MaxWidth, cfg.Media.MaxHeight, cfg.Media.JPEGQuality, log.Logger), nil
}
