package providers

import (
	"github.com/samber/do/v2"

	"github.com/3mero/edarh-server/internal/logger"
	"github.com/3mero/edarh-server/internal/media"
	"github.com/3mero/edarh-server/internal/service"
)

// ProvideMediaService provides the media management service.
func ProvideMediaService(i do.Injector) (*service.MediaService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storages := do.MustInvoke[*MediaStorages](i)
	processor := do.MustInvoke[*media.Processor](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMediaService(storeHandle.Store, storages.Images, storages.Audio, processor, log.Logger), nil
}

// ProvideTrackerService provides the progress tracking service.
func ProvideTrackerService(i do.Injector) (*service.TrackerService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	mediaService := do.MustInvoke[*service.MediaService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTrackerService(storeHandle.Store, mediaService, log.Logger), nil
}

// ProvideShareService provides the WhatsApp share message builder.
func ProvideShareService(i do.Injector) (*service.ShareService, error) {
	trackerService := do.MustInvoke[*service.TrackerService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShareService(trackerService, log.Logger), nil
}
