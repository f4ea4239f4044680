package festival

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/metrics"
	"github.com/encoreapp/encore-server/internal/search"
	"github.com/encoreapp/encore-server/internal/store"
)

// Loader syncs lineup files into the store and search index. It tracks
// which festival each file produced so a deleted file removes its
// festival.
type Loader struct {
	store  *store.Store
	index  *search.SearchIndex
	logger *slog.Logger

	mu     sync.Mutex
	byPath map[string]string // file path -> festival ID
}

// NewLoader creates a loader. The search index is optional; pass nil to
// skip indexing (used by cmd/seed).
func NewLoader(st *store.Store, index *search.SearchIndex, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		store:  st,
		index:  index,
		logger: logger,
		byPath: make(map[string]string),
	}
}

// LoadDir loads every lineup file in dir. A malformed file is logged
// and skipped; the rest still load.
func (l *Loader) LoadDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := l.LoadFile(ctx, path); err != nil {
			l.logger.Warn("skipping lineup file", "path", path, "error", err)
			continue
		}
		loaded++
	}

	l.logger.Info("festival lineups loaded", "dir", dir, "count", loaded)
	return nil
}

// LoadFile loads or reloads one lineup file.
func (l *Loader) LoadFile(ctx context.Context, path string) (err error) {
	defer func() { metrics.RecordLineupReload(err) }()
	fest, err := Load(path)
	if err != nil {
		return err
	}

	if err := l.store.UpsertFestival(ctx, fest); err != nil {
		return err
	}
	if err := l.reindex(fest); err != nil {
		return err
	}

	l.mu.Lock()
	l.byPath[path] = fest.ID
	l.mu.Unlock()

	l.logger.Info("festival lineup loaded",
		"festival", fest.Name,
		"id", fest.ID,
		"artists", len(fest.Lineup),
	)
	return nil
}

// RemoveFile drops the festival a deleted lineup file produced. Paths
// never loaded are ignored.
func (l *Loader) RemoveFile(ctx context.Context, path string) error {
	l.mu.Lock()
	festID, ok := l.byPath[path]
	delete(l.byPath, path)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	fest, err := l.store.GetFestival(ctx, festID)
	if err == nil && l.index != nil {
		ids := make([]string, 0, len(fest.Lineup)+1)
		ids = append(ids, fest.ID)
		for _, fa := range fest.Lineup {
			ids = append(ids, fa.ID)
		}
		if err := l.index.DeleteDocuments(ids); err != nil {
			return err
		}
	}

	if err := l.store.DeleteFestival(ctx, festID); err != nil {
		return err
	}
	l.logger.Info("festival removed", "id", festID, "path", path)
	return nil
}

func (l *Loader) reindex(fest *domain.Festival) error {
	if l.index == nil {
		return nil
	}
	docs := append([]*search.SearchDocument{search.FestivalToSearchDocument(fest)},
		search.LineupToSearchDocuments(fest)...)
	return l.index.IndexDocuments(docs)
}
