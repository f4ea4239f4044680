package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/encoreapp/encore-server/internal/config"
	"github.com/encoreapp/encore-server/internal/logger"
	"github.com/encoreapp/encore-server/internal/search"
	"github.com/encoreapp/encore-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the bleve full-text index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(cfg.Data.BasePath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Search index ready")

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchService provides the search service over the index.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	index := do.MustInvoke[*SearchIndexHandle](i)
	return service.NewSearchService(index.SearchIndex), nil
}
