package store

import (
	"context"
	"fmt"

	"github.com/encoreapp/encore-server/internal/domain"
)

// UpsertFestival creates or replaces a festival. Lineup files are
// re-read on change, so replacement is the normal write path.
func (s *Store) UpsertFestival(ctx context.Context, festival *domain.Festival) error {
	existing, err := s.Festivals.Get(ctx, festival.ID)
	if err == nil {
		festival.CreatedAt = existing.CreatedAt
		festival.Touch()
	} else {
		festival.InitTimestamps()
	}
	return s.Festivals.Upsert(ctx, festival.ID, festival)
}

// GetFestival retrieves a festival by ID.
func (s *Store) GetFestival(ctx context.Context, id string) (*domain.Festival, error) {
	return s.Festivals.Get(ctx, id)
}

// ListFestivals returns all festivals.
func (s *Store) ListFestivals(ctx context.Context) ([]*domain.Festival, error) {
	var festivals []*domain.Festival
	for f, err := range s.Festivals.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list festivals: %w", err)
		}
		festivals = append(festivals, f)
	}
	return festivals, nil
}

// DeleteFestival removes a festival, typically after its lineup file
// disappears. Idempotent.
func (s *Store) DeleteFestival(ctx context.Context, id string) error {
	return s.Festivals.Delete(ctx, id)
}
