package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version of the response envelope. Clients
// parse against it; bump only with a coordinated client release.
const envelopeVersion = 1

// envelope is the uniform response wrapper: every success body rides in
// `data`, every error body in `error`.
type envelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// EnvelopeTransformer wraps all response bodies in the versioned
// envelope. Registered as a huma transformer so handlers return plain
// payloads.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr,
		}, nil
	}
	return &envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
