// Package di provides dependency injection configuration for the Encore server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/encoreapp/encore-server/internal/auth"
	"github.com/encoreapp/encore-server/internal/config"
	"github.com/encoreapp/encore-server/internal/di/providers"
	"github.com/encoreapp/encore-server/internal/festival"
	"github.com/encoreapp/encore-server/internal/logger"
	"github.com/encoreapp/encore-server/internal/media/artwork"
	"github.com/encoreapp/encore-server/internal/media/images"
	"github.com/encoreapp/encore-server/internal/service"
	"github.com/encoreapp/encore-server/internal/sources"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Media layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideArtworkDownloader)

	// Outbound sources
	do.Provide(injector, providers.ProvideFanout)
	do.Provide(injector, providers.ProvideSpotify)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideConcertService)
	do.Provide(injector, providers.ProvideFestivalService)
	do.Provide(injector, providers.ProvideGroupService)
	do.Provide(injector, providers.ProvideNotificationService)

	// Festival lineup loading
	do.Provide(injector, providers.ProvideFestivalLoader)
	do.Provide(injector, providers.ProvideFestivalWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*artwork.Downloader](injector)
	_ = do.MustInvoke[*sources.Fanout](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.ConcertService](injector)
	_ = do.MustInvoke[*service.FestivalService](injector)
	_ = do.MustInvoke[*service.GroupService](injector)
	_ = do.MustInvoke[*service.NotificationService](injector)

	// Festival lineup loading
	_ = do.MustInvoke[*festival.Loader](injector)
	_ = do.MustInvoke[*providers.FestivalWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
