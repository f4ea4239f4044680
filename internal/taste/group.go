package taste

import (
	"fmt"
	"sort"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/normalize"
)

// Member pairs a profile with identity for group calculations.
type Member struct {
	UserID  string
	Name    string
	Profile *domain.UserMusicProfile
}

// OverlapArtists returns the fuzzy-distinct artists that appear in at
// least minOverlapMembers members' top lists, sorted by member count
// descending. Each member contributes at most once per artist even if
// their list mentions it twice.
func OverlapArtists(members []Member) []domain.OverlapItem {
	if len(members) < minOverlapMembers {
		return nil
	}

	type rep struct {
		display string
		count   int
	}
	var reps []*rep

	for _, m := range members {
		if m.Profile == nil {
			continue
		}
		counted := make(map[*rep]bool)
		for _, artist := range m.Profile.TopArtists {
			var found *rep
			for _, r := range reps {
				if normalize.SameArtist(r.display, artist.Name) {
					found = r
					break
				}
			}
			if found == nil {
				found = &rep{display: artist.Name}
				reps = append(reps, found)
			}
			if !counted[found] {
				found.count++
				counted[found] = true
			}
		}
	}

	var out []domain.OverlapItem
	for _, r := range reps {
		if r.count >= minOverlapMembers {
			out = append(out, domain.OverlapItem{Name: r.display, Count: r.count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// OverlapGenres is OverlapArtists for top genres. Genre identity is
// normalized equality, not substring overlap: "rock" and "indie rock"
// stay distinct overlap items.
func OverlapGenres(members []Member) []domain.OverlapItem {
	if len(members) < minOverlapMembers {
		return nil
	}

	counts := make(map[string]int)
	forms := make(map[string]string)

	for _, m := range members {
		if m.Profile == nil {
			continue
		}
		seen := make(map[string]bool)
		for _, g := range m.Profile.TopGenres {
			key := normalize.Name(g)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			counts[key]++
			if _, ok := forms[key]; !ok {
				forms[key] = g
			}
		}
	}

	var out []domain.OverlapItem
	for key, c := range counts {
		if c >= minOverlapMembers {
			out = append(out, domain.OverlapItem{Name: forms[key], Count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// GroupMatchScore classifies a concert against a whole group: how many
// members it reaches, with a bonus when it hits the group's shared
// artists or genres. The score ranks concerts for the group feed; it
// is deliberately allowed to exceed 100, capped at groupScoreCap.
func GroupMatchScore(concertArtists, concertGenres []string, members []Member) domain.GroupMatch {
	match := domain.GroupMatch{
		Level:        domain.MatchSome,
		TotalMembers: len(members),
	}
	if len(members) == 0 {
		return match
	}

	for _, m := range members {
		reason, ok := memberMatchReason(concertArtists, concertGenres, m)
		if !ok {
			continue
		}
		match.MatchedMembers++
		match.Reasons = append(match.Reasons, domain.MemberReason{
			UserID: m.UserID,
			Name:   m.Name,
			Reason: reason,
		})
	}

	switch {
	case match.MatchedMembers == match.TotalMembers:
		match.Level = domain.MatchUniversal
	case match.MatchedMembers*2 >= match.TotalMembers:
		match.Level = domain.MatchMajority
	}

	score := float64(match.MatchedMembers) / float64(match.TotalMembers) * 100

	if overlapHitsArtist(concertArtists, OverlapArtists(members)) {
		score += overlapArtistBonus
	}
	if overlapHitsGenre(concertGenres, OverlapGenres(members)) {
		score += overlapGenreBonus
	}
	if score > groupScoreCap {
		score = groupScoreCap
	}
	match.Score = score
	return match
}

// memberMatchReason decides whether one member individually matches
// the concert, by top artist or by top genre, and phrases why.
func memberMatchReason(artists, genres []string, m Member) (string, bool) {
	if m.Profile == nil {
		return "", false
	}
	for _, cand := range artists {
		for _, top := range m.Profile.TopArtists {
			if normalize.SameArtist(cand, top.Name) {
				return fmt.Sprintf("%s loves %s", displayName(m), top.Name), true
			}
		}
	}
	if overlap := genreOverlaps(genres, m.Profile.TopGenres); len(overlap) > 0 {
		return fmt.Sprintf("Matches %s's %s taste", displayName(m), overlap[0]), true
	}
	return "", false
}

func displayName(m Member) string {
	if m.Name != "" {
		return m.Name
	}
	return m.UserID
}

func overlapHitsArtist(artists []string, overlap []domain.OverlapItem) bool {
	for _, a := range artists {
		for _, o := range overlap {
			if normalize.SameArtist(a, o.Name) {
				return true
			}
		}
	}
	return false
}

func overlapHitsGenre(genres []string, overlap []domain.OverlapItem) bool {
	for _, g := range genres {
		for _, o := range overlap {
			if normalize.Name(g) == normalize.Name(o.Name) {
				return true
			}
		}
	}
	return false
}
