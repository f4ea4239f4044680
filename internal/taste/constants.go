package taste

import "github.com/encoreapp/encore-server/internal/domain"

// Product-tuned heuristic knobs. None of these are derived; they were
// settled by product iteration and belong together so a retune touches
// one file.
const (
	// Position scoring within one service's ranked list.
	basePositionScore = 100
	minPositionScore  = 10

	// Output caps keep downstream scoring cheap.
	maxAggregatedArtists = 200
	maxAggregatedGenres  = 30

	// Concert scoring.
	topArtistBaseScore = 100.0
	rankBonusBase      = 50.0
	rankBonusDecay     = 0.5
	multiSourceBonus   = 10.0
	recentArtistScore  = 70.0
	genreOverlapBonus  = 15.0

	// Festival tier scoring.
	perfectTierScore   = 100.0
	genreTierBase      = 30.0
	genreTierStep      = 15.0
	genreTierMax       = 70.0
	discoveryTierScore = 40.0

	// Festival-level percentage bonuses. The caps keep the headline
	// number honest: near-100% only when the lineup is saturated with
	// known favorites.
	perfectCountForBonus      = 5
	perfectBonus              = 10
	perfectBonusCap           = 95
	perfectCountForExtraBonus = 10
	perfectExtraBonus         = 5
	perfectExtraBonusCap      = 98

	// Group scoring. The 150 cap deliberately exceeds 100: the group
	// score ranks "showcase this first", it is not a percentage.
	overlapArtistBonus = 50.0
	overlapGenreBonus  = 20.0
	groupScoreCap      = 150.0
	minOverlapMembers  = 2
)

// serviceWeights are subjective reliability weights per source. The
// highest-fidelity listening data gets full weight; manual picks carry
// no play-count signal and get the least.
var serviceWeights = map[domain.ServiceID]float64{
	domain.ServiceSpotify:    1.0,
	domain.ServiceAppleMusic: 0.95,
	domain.ServiceTidal:      0.9,
	domain.ServiceYouTube:    0.85,
	domain.ServiceManual:     0.7,
}

// serviceWeight returns the reliability weight for a service,
// defaulting to the manual weight for unknown sources.
func serviceWeight(s domain.ServiceID) float64 {
	if w, ok := serviceWeights[s]; ok {
		return w
	}
	return serviceWeights[domain.ServiceManual]
}
