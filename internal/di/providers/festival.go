package providers

import (
	"context"
	"os"

	"github.com/samber/do/v2"

	"github.com/encoreapp/encore-server/internal/config"
	"github.com/encoreapp/encore-server/internal/festival"
	"github.com/encoreapp/encore-server/internal/logger"
)

// ProvideFestivalLoader provides the lineup file loader.
func ProvideFestivalLoader(i do.Injector) (*festival.Loader, error) {
	db := do.MustInvoke[*StoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return festival.NewLoader(db.Store, index.SearchIndex, log.Logger), nil
}

// FestivalWatcherHandle runs the lineup directory watcher in the
// background and stops it on shutdown.
type FestivalWatcherHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *FestivalWatcherHandle) Shutdown() error {
	h.cancel()
	<-h.done
	return nil
}

// ProvideFestivalWatcher loads all lineup files once, then watches the
// festivals directory for changes.
func ProvideFestivalWatcher(i do.Injector) (*FestivalWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	loader := do.MustInvoke[*festival.Loader](i)
	log := do.MustInvoke[*logger.Logger](i)

	dir := cfg.Data.FestivalsPath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := loader.LoadDir(ctx, dir); err != nil {
		log.Warn("Initial festival lineup load failed", "dir", dir, "error", err)
	}

	watcher := festival.NewWatcher(loader, dir)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Festival lineup watcher stopped", "error", err)
		}
	}()

	log.Info("Watching festival lineups", "dir", dir)

	return &FestivalWatcherHandle{cancel: cancel, done: done}, nil
}
