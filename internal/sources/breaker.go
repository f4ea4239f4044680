package sources

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/metrics"
)

// breakerClient wraps a provider client with a circuit breaker so a
// provider outage stops costing request timeouts after a few failures.
type breakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker[[]domain.Concert]
}

// WithBreaker wraps a client in a circuit breaker. The breaker opens
// after a 60% failure rate over at least 5 requests, waits a minute,
// then lets three probes through half-open.
func WithBreaker(inner Client, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	name := string(inner.Source())
	cb := gobreaker.NewCircuitBreaker[[]domain.Concert](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("source circuit breaker state change",
				"source", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})
	return &breakerClient{inner: inner, cb: cb}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

func (b *breakerClient) Source() domain.Source { return b.inner.Source() }

func (b *breakerClient) Search(ctx context.Context, q Query) ([]domain.Concert, error) {
	concerts, err := b.cb.Execute(func() ([]domain.Concert, error) {
		return b.inner.Search(ctx, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, domainerrors.Unavailable(string(b.inner.Source()) + " temporarily disabled")
	}
	return concerts, err
}
