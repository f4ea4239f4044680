package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/encoreapp/encore-server/internal/api"
	"github.com/encoreapp/encore-server/internal/config"
	"github.com/encoreapp/encore-server/internal/logger"
	"github.com/encoreapp/encore-server/internal/media/images"
	"github.com/encoreapp/encore-server/internal/service"
)

// HTTPServerHandle wraps the HTTP server with graceful shutdown.
type HTTPServerHandle struct {
	server *http.Server
	logger *logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("Stopping HTTP server")
	return h.server.Shutdown(ctx)
}

// ProvideHTTPServer builds the API surface and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	db := do.MustInvoke[*StoreHandle](i)
	artworkStorage := do.MustInvoke[*images.Storage](i)

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		Session:      do.MustInvoke[*service.SessionService](i),
		Profile:      do.MustInvoke[*service.ProfileService](i),
		Concert:      do.MustInvoke[*service.ConcertService](i),
		Festival:     do.MustInvoke[*service.FestivalService](i),
		Group:        do.MustInvoke[*service.GroupService](i),
		Notification: do.MustInvoke[*service.NotificationService](i),
		Search:       do.MustInvoke[*service.SearchService](i),
	}

	apiServer := api.NewServer(db.Store, services, artworkStorage, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr, "public_url", cfg.Server.PublicURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{server: srv, logger: log}, nil
}
