package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerArtworkRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getArtwork",
		Method:      http.MethodGet,
		Path:        "/api/v1/artwork/{artworkID}",
		Summary:     "Get artwork",
		Description: "Serves cached concert, festival, or artist artwork",
		Tags:        []string{"Artwork"},
	}, s.handleGetArtwork)
}

// ArtworkInput identifies one stored image.
type ArtworkInput struct {
	ArtworkID string `path:"artworkID" maxLength:"100" doc:"Artwork ID"`
}

// ArtworkOutput returns raw image bytes.
type ArtworkOutput struct {
	ContentType  string `header:"Content-Type"`
	ETag         string `header:"ETag"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

func (s *Server) handleGetArtwork(_ context.Context, input *ArtworkInput) (*ArtworkOutput, error) {
	if s.artwork == nil {
		return nil, huma.Error404NotFound("artwork storage not configured")
	}

	data, err := s.artwork.Get(input.ArtworkID)
	if err != nil {
		return nil, huma.Error404NotFound("artwork not found")
	}

	etag, err := s.artwork.Hash(input.ArtworkID)
	if err != nil {
		etag = ""
	}

	return &ArtworkOutput{
		ContentType:  http.DetectContentType(data),
		ETag:         etag,
		CacheControl: "public, max-age=86400",
		Body:         data,
	}, nil
}
