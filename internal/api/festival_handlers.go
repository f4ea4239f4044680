package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/itinerary"
	"github.com/encoreapp/encore-server/internal/service"
)

func (s *Server) registerFestivalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listFestivals",
		Method:      http.MethodGet,
		Path:        "/api/v1/festivals",
		Summary:     "List festivals",
		Description: "Returns all loaded festivals",
		Tags:        []string{"Festivals"},
	}, s.handleListFestivals)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFestival",
		Method:      http.MethodGet,
		Path:        "/api/v1/festivals/{festivalID}",
		Summary:     "Get festival",
		Description: "Returns one festival with its full lineup",
		Tags:        []string{"Festivals"},
	}, s.handleGetFestival)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFestivalMatches",
		Method:      http.MethodGet,
		Path:        "/api/v1/festivals/{festivalID}/matches",
		Summary:     "Match lineup against profile",
		Description: "Scores every lineup slot against the user's music profile",
		Tags:        []string{"Festivals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFestivalMatches)

	huma.Register(s.api, huma.Operation{
		OperationID: "generateItinerary",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/itinerary",
		Summary:     "Generate itinerary",
		Description: "Builds a personal day-by-day festival schedule from the user's profile",
		Tags:        []string{"Festivals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGenerateItinerary)

	huma.Register(s.api, huma.Operation{
		OperationID: "swapItinerarySlot",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/itinerary/swap",
		Summary:     "Swap itinerary slot",
		Description: "Regenerates the itinerary with one slot replaced by another lineup artist",
		Tags:        []string{"Festivals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSwapItinerary)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportItineraryCalendar",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/itinerary/calendar",
		Summary:     "Export itinerary as calendar text",
		Description: "Returns the personal itinerary as plain calendar text",
		Tags:        []string{"Festivals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleItineraryCalendar)

	huma.Register(s.api, huma.Operation{
		OperationID: "generateGroupItinerary",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/group-itinerary/{groupID}",
		Summary:     "Generate group itinerary",
		Description: "Builds a shared festival schedule balancing every member's taste",
		Tags:        []string{"Festivals", "Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGroupItinerary)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportGroupItineraryCalendar",
		Method:      http.MethodPost,
		Path:        "/api/v1/festivals/{festivalID}/group-itinerary/{groupID}/calendar",
		Summary:     "Export group itinerary as calendar text",
		Description: "Returns the group itinerary as plain calendar text",
		Tags:        []string{"Festivals", "Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGroupItineraryCalendar)
}

// === DTOs ===

// FestivalListOutput wraps festivals for Huma.
type FestivalListOutput struct {
	Body struct {
		Festivals []*domain.Festival `json:"festivals"`
		Total     int                `json:"total"`
	}
}

// FestivalInput identifies one festival.
type FestivalInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
}

// FestivalOutput wraps one festival for Huma.
type FestivalOutput struct {
	Body *domain.Festival
}

// LineupMatchesOutput wraps per-slot match results for Huma.
type LineupMatchesOutput struct {
	Body *service.LineupMatches
}

// ItineraryOptions carries itinerary generation knobs. Zero values fall
// back to the product defaults.
type ItineraryOptions struct {
	Days             []string `json:"days,omitempty" doc:"Restrict and order output days"`
	MaxPerDay        int      `json:"max_per_day,omitempty" validate:"min=0,max=24" doc:"Maximum sets per day (default 8)"`
	RestBreakMinutes int      `json:"rest_break_minutes,omitempty" validate:"min=0" doc:"Minimum rest gap between sets (default 90)"`
	IncludeDiscovery *bool    `json:"include_discovery,omitempty" doc:"Fill spare slots with discovery picks (default true)"`
}

// ItineraryInput wraps itinerary options with the festival path param.
type ItineraryInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	Body       ItineraryOptions
}

// ItineraryOutput wraps a personal itinerary for Huma.
type ItineraryOutput struct {
	Body *domain.Itinerary
}

// SwapSlotRequest names the slot to replace and its replacement.
type SwapSlotRequest struct {
	Day           string           `json:"day" validate:"required" doc:"Festival day of the slot"`
	SlotIndex     int              `json:"slot_index" validate:"min=0" doc:"Index of the slot within the day"`
	ReplacementID string           `json:"replacement_id" validate:"required" doc:"Lineup slot ID of the replacement artist"`
	Options       ItineraryOptions `json:"options,omitempty" doc:"Options used to regenerate the base itinerary"`
}

// SwapSlotInput wraps the swap request for Huma.
type SwapSlotInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	Body       SwapSlotRequest
}

// GroupItineraryInput wraps group itinerary options for Huma.
type GroupItineraryInput struct {
	FestivalID string `path:"festivalID" doc:"Festival ID"`
	GroupID    string `path:"groupID" doc:"Group ID"`
	Body       ItineraryOptions
}

// GroupItineraryOutput wraps a group itinerary for Huma.
type GroupItineraryOutput struct {
	Body *domain.GroupItinerary
}

// CalendarOutput returns plain calendar text.
type CalendarOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// === Handlers ===

func (s *Server) handleListFestivals(ctx context.Context, _ *struct{}) (*FestivalListOutput, error) {
	festivals, err := s.services.Festival.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &FestivalListOutput{}
	out.Body.Festivals = festivals
	out.Body.Total = len(festivals)
	return out, nil
}

func (s *Server) handleGetFestival(ctx context.Context, input *FestivalInput) (*FestivalOutput, error) {
	festival, err := s.services.Festival.Get(ctx, input.FestivalID)
	if err != nil {
		return nil, err
	}

	return &FestivalOutput{Body: festival}, nil
}

func (s *Server) handleFestivalMatches(ctx context.Context, input *FestivalInput) (*LineupMatchesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	matches, err := s.services.Festival.Matches(ctx, input.FestivalID, userID)
	if err != nil {
		return nil, err
	}

	return &LineupMatchesOutput{Body: matches}, nil
}

func (s *Server) handleGenerateItinerary(ctx context.Context, input *ItineraryInput) (*ItineraryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Festival.Itinerary(ctx, input.FestivalID, userID, mapItineraryOptions(input.Body))
	if err != nil {
		return nil, err
	}

	return &ItineraryOutput{Body: result}, nil
}

func (s *Server) handleSwapItinerary(ctx context.Context, input *SwapSlotInput) (*ItineraryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Festival.Swap(ctx, input.FestivalID, userID, service.SwapRequest{
		Day:           input.Body.Day,
		SlotIndex:     input.Body.SlotIndex,
		ReplacementID: input.Body.ReplacementID,
		Options:       mapItineraryOptions(input.Body.Options),
	})
	if err != nil {
		return nil, err
	}

	return &ItineraryOutput{Body: result}, nil
}

func (s *Server) handleItineraryCalendar(ctx context.Context, input *ItineraryInput) (*CalendarOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	text, err := s.services.Festival.Calendar(ctx, input.FestivalID, userID, mapItineraryOptions(input.Body))
	if err != nil {
		return nil, err
	}

	return &CalendarOutput{
		ContentType: "text/calendar; charset=utf-8",
		Body:        []byte(text),
	}, nil
}

func (s *Server) handleGroupItinerary(ctx context.Context, input *GroupItineraryInput) (*GroupItineraryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Festival.GroupItinerary(ctx, input.FestivalID, userID, input.GroupID, mapItineraryOptions(input.Body))
	if err != nil {
		return nil, err
	}

	return &GroupItineraryOutput{Body: result}, nil
}

func (s *Server) handleGroupItineraryCalendar(ctx context.Context, input *GroupItineraryInput) (*CalendarOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	text, err := s.services.Festival.GroupCalendar(ctx, input.FestivalID, userID, input.GroupID, mapItineraryOptions(input.Body))
	if err != nil {
		return nil, err
	}

	return &CalendarOutput{
		ContentType: "text/calendar; charset=utf-8",
		Body:        []byte(text),
	}, nil
}

// mapItineraryOptions fills in defaults for any knob the client left
// unset.
func mapItineraryOptions(in ItineraryOptions) itinerary.Options {
	opts := itinerary.DefaultOptions()
	if len(in.Days) > 0 {
		opts.Days = in.Days
	}
	if in.MaxPerDay > 0 {
		opts.MaxPerDay = in.MaxPerDay
	}
	if in.RestBreakMinutes > 0 {
		opts.RestBreakMinutes = in.RestBreakMinutes
	}
	if in.IncludeDiscovery != nil {
		opts.IncludeDiscovery = *in.IncludeDiscovery
	}
	return opts
}
