package api

import "github.com/3mero/edarh-server/internal/service"

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Tracker *service.TrackerService
	Media   *service.MediaService
	Share   *service.ShareService
}
