// Package sources holds the ticketing-provider clients and the fan-out
// that queries them concurrently. Each client normalizes its provider's
// payload into domain.Concert; cross-source identity is the dedupe
// package's job, not ours.
package sources

import (
	"context"
	"log/slog"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/encoreapp/encore-server/internal/domain"
)

// Query is one concert search as the providers understand it.
type Query struct {
	City     string
	DateFrom string // YYYY-MM-DD, inclusive
	DateTo   string // YYYY-MM-DD, inclusive

	// Artists narrows the search for providers that look up by artist
	// (Bandsintown); city-first providers ignore it.
	Artists []string
}

// Client is a single ticketing provider.
type Client interface {
	Source() domain.Source
	Search(ctx context.Context, q Query) ([]domain.Concert, error)
}

// Options configures provider clients.
type Options struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.RPS <= 0 {
		o.RPS = 4
	}
	if o.Burst <= 0 {
		o.Burst = 8
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// markdownify converts provider HTML blurbs to markdown. Providers mix
// plain text and HTML in the same field, so conversion failures fall
// back to the raw input.
func markdownify(html string) string {
	if html == "" || !strings.Contains(html, "<") {
		return html
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return html
	}
	return strings.TrimSpace(md)
}

// appendGenre adds a genre if it is non-empty and not already present
// (case-insensitive).
func appendGenre(genres []string, name string) []string {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "undefined") || strings.EqualFold(name, "other") {
		return genres
	}
	for _, g := range genres {
		if strings.EqualFold(g, name) {
			return genres
		}
	}
	return append(genres, strings.ToLower(name))
}
