package providers

import (
	"github.com/samber/do/v2"

	"github.com/encoreapp/encore-server/internal/auth"
	"github.com/encoreapp/encore-server/internal/logger"
	"github.com/encoreapp/encore-server/internal/service"
	"github.com/encoreapp/encore-server/internal/sources"
)

// ProvideSessionService provides session lifecycle management.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(db.Store, tokens, log.Logger), nil
}

// ProvideAuthService provides signup, login, and token refresh.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(db.Store, tokens, sessions, log.Logger), nil
}

// ProvideProfileService provides music taste profiles.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// A typed nil must not end up inside the interface, or the service's
	// nil guard stops working.
	var artistSource service.ArtistSource
	if sp := do.MustInvoke[*sources.Spotify](i); sp != nil {
		artistSource = sp
	}

	return service.NewProfileService(db.Store, artistSource, log.Logger), nil
}

// ProvideConcertService provides cross-source concert search and matching.
func ProvideConcertService(i do.Injector) (*service.ConcertService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	fanout := do.MustInvoke[*sources.Fanout](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewConcertService(db.Store, fanout, log.Logger), nil
}

// ProvideFestivalService provides festival lineups, matching, and itineraries.
func ProvideFestivalService(i do.Injector) (*service.FestivalService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFestivalService(db.Store, log.Logger), nil
}

// ProvideGroupService provides group membership and taste overlap.
func ProvideGroupService(i do.Injector) (*service.GroupService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGroupService(db.Store, log.Logger), nil
}

// ProvideNotificationService provides notification preferences and digests.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	db := do.MustInvoke[*StoreHandle](i)
	concerts := do.MustInvoke[*service.ConcertService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotificationService(db.Store, concerts, log.Logger), nil
}
