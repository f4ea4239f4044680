package api

import (
	"github.com/encoreapp/encore-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth         *service.AuthService
	Session      *service.SessionService
	Profile      *service.ProfileService
	Concert      *service.ConcertService
	Festival     *service.FestivalService
	Group        *service.GroupService
	Notification *service.NotificationService
	Search       *service.SearchService
}
