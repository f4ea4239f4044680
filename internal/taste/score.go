package taste

import (
	"fmt"
	"math"
	"strings"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/normalize"
)

// Candidate is what gets scored against a profile: the billed artists
// and genre tags of a concert listing.
type Candidate struct {
	Artists []string
	Genres  []string
}

// ScoreConcert computes a match score and a short ranked reason list
// for one concert against one profile. A zero score means "no signal",
// not an error; the caller still returns the concert, ranked last.
func ScoreConcert(c Candidate, profile *domain.UserMusicProfile) (float64, []string) {
	if profile == nil {
		return 0, nil
	}

	var score float64
	var reasons []string

	// Tier 1: a billed artist the user loves. First match wins; a
	// two-artist bill with two favorites does not double count.
	if artist, rank, ok := bestTopArtistMatch(c.Artists, profile.TopArtists); ok {
		score = topArtistBaseScore
		score += rankBonus(rank)
		score += float64(len(artist.Sources)-1) * multiSourceBonus
		if len(artist.Sources) > 1 {
			reasons = append(reasons, fmt.Sprintf("You love %s (on %d of your services)", artist.Name, len(artist.Sources)))
		} else {
			reasons = append(reasons, fmt.Sprintf("You love %s", artist.Name))
		}
	} else if name, ok := recentMatch(c.Artists, profile.RecentArtistNames); ok {
		// Tier 2: something from recent listening.
		score = recentArtistScore
		reasons = append(reasons, fmt.Sprintf("Recently played %s", name))
	}

	// Genre overlap stacks on top of either tier (or stands alone).
	overlap := genreOverlaps(c.Genres, profile.TopGenres)
	if len(overlap) > 0 {
		score += float64(len(overlap)) * genreOverlapBonus
		if len(reasons) == 0 {
			reasons = append(reasons, fmt.Sprintf("Matches your %s taste", overlap[0]))
		}
	}

	return score, reasons
}

// bestTopArtistMatch returns the highest-ranked top artist that any
// candidate artist fuzzy-matches.
func bestTopArtistMatch(candidates []string, top []domain.AggregatedArtist) (domain.AggregatedArtist, int, bool) {
	best := -1
	for _, cand := range candidates {
		for rank, artist := range top {
			if best != -1 && rank >= best {
				break // already found a better-ranked match
			}
			if normalize.SameArtist(cand, artist.Name) {
				best = rank
				break
			}
		}
	}
	if best == -1 {
		return domain.AggregatedArtist{}, 0, false
	}
	return top[best], best, true
}

// rankBonus rewards a match high in the user's top list.
func rankBonus(rank int) float64 {
	b := rankBonusBase - float64(rank)*rankBonusDecay
	if b < 0 {
		return 0
	}
	return b
}

func recentMatch(candidates, recent []string) (string, bool) {
	for _, cand := range candidates {
		for _, r := range recent {
			if normalize.SameArtist(cand, r) {
				return r, true
			}
		}
	}
	return "", false
}

// genreOverlaps returns the profile genres that any candidate genre
// substring-matches, one entry per candidate genre that overlapped.
func genreOverlaps(candidates, top []string) []string {
	var matched []string
	for _, cand := range candidates {
		for _, g := range top {
			if normalize.SameGenre(cand, g) {
				matched = append(matched, g)
				break
			}
		}
	}
	return matched
}

// MatchFestivalArtist classifies one lineup artist against a profile
// into a discrete tier. Festival matching needs tiers (must-see /
// recommended / discovery grouping) where concert matching only needs
// a sortable scalar.
func MatchFestivalArtist(artist domain.FestivalArtist, profile *domain.UserMusicProfile) domain.FestivalArtistMatch {
	m := domain.FestivalArtistMatch{
		FestivalArtist: artist,
		MatchType:      domain.TierNone,
	}
	if profile == nil {
		return m
	}

	for _, top := range profile.TopArtists {
		if normalize.SameArtist(artist.ArtistName, top.Name) {
			m.MatchType = domain.TierPerfect
			m.MatchScore = perfectTierScore
			m.MatchReason = fmt.Sprintf("You love %s", top.Name)
			return m
		}
	}

	overlap := genreOverlaps(artist.Genres, profile.TopGenres)
	if len(overlap) > 0 {
		m.MatchType = domain.TierGenre
		m.MatchScore = math.Min(genreTierMax, genreTierBase+float64(len(overlap))*genreTierStep)
		m.MatchReason = fmt.Sprintf("Matches your %s taste", overlap[0])
		return m
	}

	if g, ok := genreRootMatch(artist.Genres, profile.TopGenres); ok {
		m.MatchType = domain.TierDiscovery
		m.MatchScore = discoveryTierScore
		m.MatchReason = fmt.Sprintf("A new find near your %s taste", g)
		return m
	}

	return m
}

// genreRootMatch finds a loose match on genre families: "hyperpop"
// shares a root with "dream pop", "folk rock" with "indie rock".
func genreRootMatch(candidates, top []string) (string, bool) {
	for _, cand := range candidates {
		cr := normalize.GenreRoot(cand)
		if cr == "" {
			continue
		}
		for _, g := range top {
			tr := normalize.GenreRoot(g)
			if tr == "" {
				continue
			}
			if cr == tr || strings.Contains(cr, tr) || strings.Contains(tr, cr) {
				return g, true
			}
		}
	}
	return "", false
}

// FestivalMatchPercent is the lineup-level headline number: total
// per-artist score over the lineup's maximum, as a percentage, with
// fixed bonuses when the lineup is dense with perfect matches. Always
// within [0, perfectExtraBonusCap].
func FestivalMatchPercent(matches []domain.FestivalArtistMatch) int {
	if len(matches) == 0 {
		return 0
	}

	var total float64
	perfects := 0
	for _, m := range matches {
		total += m.MatchScore
		if m.MatchType == domain.TierPerfect {
			perfects++
		}
	}

	pct := int(math.Round(total / (float64(len(matches)) * perfectTierScore) * 100))
	if perfects >= perfectCountForBonus {
		pct += perfectBonus
		if pct > perfectBonusCap {
			pct = perfectBonusCap
		}
		if perfects >= perfectCountForExtraBonus {
			pct += perfectExtraBonus
			if pct > perfectExtraBonusCap {
				pct = perfectExtraBonusCap
			}
		}
	}
	if pct < 0 {
		pct = 0
	}
	if pct > perfectExtraBonusCap {
		pct = perfectExtraBonusCap
	}
	return pct
}
