package service

import (
	"context"
	"time"

	"github.com/encoreapp/encore-server/internal/metrics"
	"github.com/encoreapp/encore-server/internal/search"
)

// SearchService fronts the full-text index.
type SearchService struct {
	index *search.SearchIndex
}

// NewSearchService creates a search service over the index.
func NewSearchService(index *search.SearchIndex) *SearchService {
	return &SearchService{index: index}
}

// Search runs a full-text query over concerts, festivals, and lineup
// artists.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	start := time.Now()
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	metrics.RecordSearchQuery(time.Since(start))
	return result, nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
