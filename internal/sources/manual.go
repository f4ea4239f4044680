package sources

import (
	"strings"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/taste"
)

// ManualList converts a user's hand-picked favorites into the same
// shape as a connected service's ranked list, so aggregation treats
// them uniformly (at the manual service weight).
func ManualList(picks *domain.ManualPicks) taste.ServiceArtistList {
	list := taste.ServiceArtistList{Service: domain.ServiceManual}
	if picks == nil {
		return list
	}
	for _, name := range picks.Artists {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		list.Artists = append(list.Artists, domain.RawArtistEntry{Name: name})
	}
	for _, g := range picks.Genres {
		list.Genres = appendGenre(list.Genres, g)
	}
	return list
}
