package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/encoreapp/encore-server/internal/domain"
)

const concertCachePrefix = "cache:concerts:"

// ConcertCacheKey builds the cache key for a concert search. City is
// folded so "Montréal" and "montreal " hit the same entry.
func ConcertCacheKey(city, dateFrom, dateTo string) string {
	c := strings.ToLower(strings.TrimSpace(city))
	return c + "|" + dateFrom + "|" + dateTo
}

// CachedConcerts returns a previously cached aggregation, or
// ErrNotFound on a miss or an expired entry.
func (s *Store) CachedConcerts(ctx context.Context, key string) ([]domain.AggregatedConcert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var concerts []domain.AggregatedConcert
	err := s.get([]byte(concertCachePrefix+key), &concerts)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read concert cache: %w", err)
	}
	return concerts, nil
}

// CacheConcerts stores an aggregation under key for ttl. Badger expires
// the entry itself; there is no sweeper.
func (s *Store) CacheConcerts(ctx context.Context, key string, concerts []domain.AggregatedConcert, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(concerts)
	if err != nil {
		return fmt.Errorf("failed to marshal concert cache entry: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(concertCachePrefix+key), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

// InvalidateConcerts drops one cached aggregation. Idempotent.
func (s *Store) InvalidateConcerts(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(concertCachePrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
