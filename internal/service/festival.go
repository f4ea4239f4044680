package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/itinerary"
	"github.com/encoreapp/encore-server/internal/metrics"
	"github.com/encoreapp/encore-server/internal/store"
	"github.com/encoreapp/encore-server/internal/taste"
)

// FestivalService serves festival lineups, per-user lineup matching,
// and itinerary generation.
type FestivalService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFestivalService creates a festival service.
func NewFestivalService(store *store.Store, logger *slog.Logger) *FestivalService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FestivalService{store: store, logger: logger}
}

// List returns all loaded festivals.
func (s *FestivalService) List(ctx context.Context) ([]*domain.Festival, error) {
	return s.store.ListFestivals(ctx)
}

// Get returns one festival with its full lineup.
func (s *FestivalService) Get(ctx context.Context, festivalID string) (*domain.Festival, error) {
	fest, err := s.store.GetFestival(ctx, festivalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("festival not found")
		}
		return nil, fmt.Errorf("get festival: %w", err)
	}
	return fest, nil
}

// LineupMatches is a festival's lineup scored against one profile.
type LineupMatches struct {
	Festival     *domain.Festival             `json:"festival"`
	Matches      []domain.FestivalArtistMatch `json:"matches"`
	MatchPercent int                          `json:"match_percent"`
}

// Matches scores every lineup slot against the user's profile. Works
// without a profile; everything lands in the none tier.
func (s *FestivalService) Matches(ctx context.Context, festivalID, userID string) (*LineupMatches, error) {
	fest, err := s.Get(ctx, festivalID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileOrNil(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.FestivalArtistMatch, 0, len(fest.Lineup))
	for _, fa := range fest.Lineup {
		matches = append(matches, taste.MatchFestivalArtist(fa, profile))
	}

	return &LineupMatches{
		Festival:     fest,
		Matches:      matches,
		MatchPercent: taste.FestivalMatchPercent(matches),
	}, nil
}

// Itinerary generates a fresh single-user schedule for the festival.
func (s *FestivalService) Itinerary(ctx context.Context, festivalID, userID string, opts itinerary.Options) (*domain.Itinerary, error) {
	start := time.Now()

	lm, err := s.Matches(ctx, festivalID, userID)
	if err != nil {
		return nil, err
	}

	it := itinerary.Generate(lm.Festival, lm.Matches, opts)
	metrics.RecordItinerary("single", time.Since(start))
	return it, nil
}

// GroupItinerary generates a schedule balancing every member of the group.
func (s *FestivalService) GroupItinerary(ctx context.Context, festivalID, userID, groupID string, opts itinerary.Options) (*domain.GroupItinerary, error) {
	start := time.Now()

	fest, err := s.Get(ctx, festivalID)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("group not found")
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	if !group.HasMember(userID) {
		return nil, domainerrors.Forbidden("not a member of this group")
	}

	members, err := loadMembers(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	it := itinerary.GenerateGroup(fest, fest.Lineup, members, groupID, opts)
	metrics.RecordItinerary("group", time.Since(start))
	return it, nil
}

// SwapRequest asks for one itinerary slot to be replaced by another
// lineup artist.
type SwapRequest struct {
	Day           string `json:"day" validate:"required"`
	SlotIndex     int    `json:"slot_index" validate:"min=0"`
	ReplacementID string `json:"replacement_id" validate:"required"`
	Options       itinerary.Options
}

// Swap regenerates the user's itinerary and swaps one slot for the
// named lineup artist. The result is a new itinerary; nothing is
// mutated or persisted.
func (s *FestivalService) Swap(ctx context.Context, festivalID, userID string, req SwapRequest) (*domain.Itinerary, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	lm, err := s.Matches(ctx, festivalID, userID)
	if err != nil {
		return nil, err
	}

	var replacement *domain.FestivalArtistMatch
	for i := range lm.Matches {
		if lm.Matches[i].ID == req.ReplacementID {
			replacement = &lm.Matches[i]
			break
		}
	}
	if replacement == nil {
		return nil, domainerrors.NotFound("replacement artist is not on the lineup")
	}

	it := itinerary.Generate(lm.Festival, lm.Matches, req.Options)
	return itinerary.Swap(it, req.Day, req.SlotIndex, *replacement)
}

// Calendar renders the user's itinerary as shareable plain text.
func (s *FestivalService) Calendar(ctx context.Context, festivalID, userID string, opts itinerary.Options) (string, error) {
	lm, err := s.Matches(ctx, festivalID, userID)
	if err != nil {
		return "", err
	}
	it := itinerary.Generate(lm.Festival, lm.Matches, opts)
	return itinerary.Calendar(it, lm.Festival.Name), nil
}

// GroupCalendar renders a group itinerary as shareable plain text.
func (s *FestivalService) GroupCalendar(ctx context.Context, festivalID, userID, groupID string, opts itinerary.Options) (string, error) {
	it, err := s.GroupItinerary(ctx, festivalID, userID, groupID, opts)
	if err != nil {
		return "", err
	}
	fest, err := s.Get(ctx, festivalID)
	if err != nil {
		return "", err
	}
	return itinerary.GroupCalendar(it, fest.Name), nil
}

func (s *FestivalService) profileOrNil(ctx context.Context, userID string) (*domain.UserMusicProfile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}
