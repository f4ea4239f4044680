package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/encoreapp/encore-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search events",
		Description: "Full-text search across concerts, festivals, and lineup artists",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching events.
type SearchInput struct {
	Query     string `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
	Types     string `query:"types" validate:"omitempty,max=100" doc:"Comma-separated types to search (concert,festival,artist). Omit for all."`
	Genres    string `query:"genres" validate:"omitempty,max=200" doc:"Comma-separated genre names to filter by"`
	City      string `query:"city" validate:"omitempty,max=100" doc:"Filter by venue city or festival location"`
	DateFrom  string `query:"date_from" validate:"omitempty,datetime=2006-01-02" doc:"Inclusive start date (YYYY-MM-DD)"`
	DateTo    string `query:"date_to" validate:"omitempty,datetime=2006-01-02" doc:"Inclusive end date (YYYY-MM-DD)"`
	Limit     int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset    int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset (default 0)"`
	SortBy    string `query:"sort" validate:"omitempty,oneof=relevance name date" doc:"Sort order (default relevance)"`
	SortOrder string `query:"order" validate:"omitempty,oneof=asc desc" doc:"Sort direction (default desc)"`
	Facets    bool   `query:"facets" doc:"Include facet counts in response"`
	Highlight bool   `query:"highlight" doc:"Include match highlighting"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Genres = splitCSV(input.Genres)
	params.City = input.City
	params.DateFrom = input.DateFrom
	params.DateTo = input.DateTo
	params.IncludeFacets = input.Facets
	params.Highlight = input.Highlight

	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}
	if input.SortBy != "" {
		params.SortBy = input.SortBy
	}
	if input.SortOrder != "" {
		params.SortOrder = input.SortOrder
	}

	for _, t := range splitCSV(input.Types) {
		switch t {
		case "concert":
			params.Types = append(params.Types, string(search.DocTypeConcert))
		case "festival":
			params.Types = append(params.Types, string(search.DocTypeFestival))
		case "artist":
			params.Types = append(params.Types, string(search.DocTypeArtist))
		}
	}

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: result}, nil
}

// splitCSV splits a comma-separated query value, trimming blanks.
func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
