package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/service"
)

func (s *Server) registerConcertRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchConcerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/concerts",
		Summary:     "Search concerts",
		Description: "Returns deduplicated concerts for a city and date window, scored against the user's music profile and sorted by match strength",
		Tags:        []string{"Concerts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchConcerts)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchGroupConcerts",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{groupID}/concerts",
		Summary:     "Search concerts for a group",
		Description: "Returns concerts scored against every member's profile, ranked by combined group appeal",
		Tags:        []string{"Concerts", "Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchGroupConcerts)
}

// === DTOs ===

// ConcertSearchInput carries concert search query parameters.
type ConcertSearchInput struct {
	City     string   `query:"city" required:"true" maxLength:"100" doc:"City to search in"`
	DateFrom string   `query:"date_from" required:"true" doc:"Inclusive start date (YYYY-MM-DD)"`
	DateTo   string   `query:"date_to" required:"true" doc:"Inclusive end date (YYYY-MM-DD)"`
	Artists  []string `query:"artists" doc:"Artist names to search for; empty uses the user's top artists"`
}

// ConcertListOutput wraps scored concerts for Huma.
type ConcertListOutput struct {
	Body struct {
		Concerts []domain.AggregatedConcert `json:"concerts"`
		Total    int                        `json:"total"`
	}
}

// GroupConcertSearchInput carries group concert search parameters.
type GroupConcertSearchInput struct {
	GroupID  string   `path:"groupID" doc:"Group ID"`
	City     string   `query:"city" required:"true" maxLength:"100" doc:"City to search in"`
	DateFrom string   `query:"date_from" required:"true" doc:"Inclusive start date (YYYY-MM-DD)"`
	DateTo   string   `query:"date_to" required:"true" doc:"Inclusive end date (YYYY-MM-DD)"`
	Artists  []string `query:"artists" doc:"Artist names to search for; empty uses the union of member top artists"`
}

// GroupConcertListOutput wraps group-scored concerts for Huma.
type GroupConcertListOutput struct {
	Body struct {
		Concerts []service.GroupConcert `json:"concerts"`
		Total    int                    `json:"total"`
	}
}

// === Handlers ===

func (s *Server) handleSearchConcerts(ctx context.Context, input *ConcertSearchInput) (*ConcertListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	concerts, err := s.services.Concert.Search(ctx, userID, service.ConcertSearchRequest{
		City:     input.City,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Artists:  input.Artists,
	})
	if err != nil {
		return nil, err
	}

	out := &ConcertListOutput{}
	out.Body.Concerts = concerts
	out.Body.Total = len(concerts)
	return out, nil
}

func (s *Server) handleSearchGroupConcerts(ctx context.Context, input *GroupConcertSearchInput) (*GroupConcertListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	concerts, err := s.services.Concert.SearchForGroup(ctx, userID, input.GroupID, service.ConcertSearchRequest{
		City:     input.City,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Artists:  input.Artists,
	})
	if err != nil {
		return nil, err
	}

	out := &GroupConcertListOutput{}
	out.Body.Concerts = concerts
	out.Body.Total = len(concerts)
	return out, nil
}
