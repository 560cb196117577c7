// Package di provides dependency injection configuration for the Edarh server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/3mero/edarh-server/internal/config"
	"github.com/3mero/edarh-server/internal/di/providers"
	"github.com/3mero/edarh-server/internal/logger"
	"github.com/3mero/edarh-server/internal/media"
	"github.com/3mero/edarh-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideMediaStorages)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Business services
	do.Provide(injector, providers.ProvideMediaService)
	do.Provide(injector, providers.ProvideTrackerService)
	do.Provide(injector, providers.ProvideShareService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is running.
// This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.MediaStorages](injector)
	_ = do.MustInvoke[*media.Processor](injector)

	_ = do.MustInvoke[*service.MediaService](injector)
	_ = do.MustInvoke[*service.TrackerService](injector)
	_ = do.MustInvoke[*service.ShareService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
