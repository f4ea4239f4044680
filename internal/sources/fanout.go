package sources

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/metrics"
)

// Fanout queries every configured provider concurrently. A provider
// failing, timing out, or sitting behind an open breaker costs its
// listings only; the others still answer.
type Fanout struct {
	clients []Client
	logger  *slog.Logger
}

// NewFanout builds a fan-out over the given clients.
func NewFanout(logger *slog.Logger, clients ...Client) *Fanout {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fanout{clients: clients, logger: logger}
}

// Sources lists the providers this fan-out queries.
func (f *Fanout) Sources() []domain.Source {
	out := make([]domain.Source, len(f.clients))
	for i, c := range f.clients {
		out[i] = c.Source()
	}
	return out
}

// Search queries all providers and returns their listings keyed by
// source, plus the sources that failed.
func (f *Fanout) Search(ctx context.Context, q Query) (map[domain.Source][]domain.Concert, []domain.Source) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		bySource = make(map[domain.Source][]domain.Concert, len(f.clients))
		failed   []domain.Source
	)

	for _, client := range f.clients {
		wg.Add(1)
		go func(client Client) {
			defer wg.Done()
			start := time.Now()
			concerts, err := client.Search(ctx, q)
			metrics.RecordSourceSearch(string(client.Source()), len(concerts), time.Since(start), err)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				f.logger.Warn("source search failed",
					"source", client.Source(),
					"city", q.City,
					"error", err,
				)
				failed = append(failed, client.Source())
				return
			}
			bySource[client.Source()] = concerts
		}(client)
	}
	wg.Wait()

	return bySource, failed
}
