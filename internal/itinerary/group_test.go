package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/taste"
)

func groupMember(id, name string, artists, genres []string) taste.Member {
	p := &domain.UserMusicProfile{UserID: id, TopGenres: genres}
	for _, a := range artists {
		p.TopArtists = append(p.TopArtists, domain.AggregatedArtist{Name: a})
	}
	return taste.Member{UserID: id, Name: name, Profile: p}
}

func lineupArtist(name, day, start, end string, genres ...string) domain.FestivalArtist {
	return domain.FestivalArtist{
		ID:         "fa-" + name,
		ArtistName: name,
		Day:        day,
		StartTime:  start,
		EndTime:    end,
		Genres:     genres,
	}
}

func TestGenerateGroup_StrongestMatchAttribution(t *testing.T) {
	// Only Ada loves the act; the slot still lands, credited to her,
	// with the group score averaged over everyone.
	members := []taste.Member{
		groupMember("usr-1", "Ada", []string{"Solo Star"}, nil),
		groupMember("usr-2", "Ben", nil, nil),
		groupMember("usr-3", "Cam", nil, nil),
	}
	lineup := []domain.FestivalArtist{
		lineupArtist("Solo Star", "Friday", "18:00", "19:00"),
	}

	it := GenerateGroup(nil, lineup, members, "grp-1", DefaultOptions())

	assert.Equal(t, "grp-1", it.GroupID)
	require.Len(t, it.Days, 1)
	require.Len(t, it.Days[0].Slots, 1)

	slot := it.Days[0].Slots[0]
	assert.Equal(t, domain.DecisionStrongest, slot.DecidedBy)
	assert.Equal(t, "Ada", slot.WinningMember)
	assert.InDelta(t, 100.0/3, slot.GroupScore, 0.01)
	require.Len(t, slot.MemberMatches, 3)
	assert.Equal(t, domain.TierPerfect, slot.MemberMatches[0].MatchType)
	assert.Equal(t, domain.TierNone, slot.MemberMatches[1].MatchType)
}

func TestGenerateGroup_ConsensusBothWays(t *testing.T) {
	// Full agreement counts as consensus whether everyone matched or
	// nobody did.
	members := []taste.Member{
		groupMember("usr-1", "Ada", []string{"Everyone's Fave"}, nil),
		groupMember("usr-2", "Ben", []string{"Everyone's Fave"}, nil),
	}
	lineup := []domain.FestivalArtist{
		lineupArtist("Everyone's Fave", "Friday", "17:00", "18:00"),
		lineupArtist("Mystery Act", "Friday", "21:00", "22:00"),
	}

	it := GenerateGroup(nil, lineup, members, "", DefaultOptions())

	require.Len(t, it.Days, 1)
	require.Len(t, it.Days[0].Slots, 2)
	for _, slot := range it.Days[0].Slots {
		assert.Equal(t, domain.DecisionConsensus, slot.DecidedBy)
		assert.Empty(t, slot.WinningMember)
	}
	assert.Equal(t, 100, it.ConsensusRate)
	require.NotEmpty(t, it.Highlights)
	assert.Contains(t, it.Highlights[0], "100% of the schedule")
}

func TestGenerateGroup_CompromiseEscalation(t *testing.T) {
	// Ada's and Ben's favorites clash; Alpha wins the tie-break and Ben
	// logs a compromise.
	members := []taste.Member{
		groupMember("usr-1", "Ada", []string{"Alpha"}, nil),
		groupMember("usr-2", "Ben", []string{"Beta"}, nil),
	}
	lineup := []domain.FestivalArtist{
		lineupArtist("Alpha", "Friday", "18:00", "19:00"),
		lineupArtist("Beta", "Friday", "18:30", "19:30"),
	}

	it := GenerateGroup(nil, lineup, members, "", DefaultOptions())

	require.Len(t, it.Days, 1)
	require.Len(t, it.Days[0].Slots, 1)

	slot := it.Days[0].Slots[0]
	assert.Equal(t, "Alpha", slot.Artist.ArtistName)
	assert.Equal(t, domain.DecisionCompromise, slot.DecidedBy)
	assert.Contains(t, slot.ConflictResolution, "Ben")
	assert.Contains(t, slot.ConflictResolution, "Beta")
	require.Len(t, slot.Alternatives, 1)
	assert.Equal(t, "Beta", slot.Alternatives[0].ArtistName)

	require.Len(t, it.Satisfaction, 2)
	ada, ben := it.Satisfaction[0], it.Satisfaction[1]
	assert.Equal(t, 100, ada.SatisfactionScore)
	assert.Equal(t, 0, ada.Compromises)
	assert.Equal(t, 0, ben.SatisfactionScore)
	assert.Equal(t, 1, ben.Compromises)
	assert.Equal(t, 1, ben.MustSeesTotal)
	assert.Equal(t, 0, ben.MustSeesCovered)

	assert.Contains(t, strings.Join(it.Highlights, "\n"), "1 compromise")
}

func TestGenerateGroup_ConsensusSlotLogsNoCompromise(t *testing.T) {
	// Everyone is behind Alpha — perfect for Ada, genre match for Ben —
	// so the slot is consensus. Displacing Beta, which Ben personally
	// scores higher, is not a compromise decision and must not count
	// against him.
	members := []taste.Member{
		groupMember("usr-1", "Ada", []string{"Alpha"}, nil),
		groupMember("usr-2", "Ben", []string{"Beta"}, []string{"indie rock"}),
	}
	lineup := []domain.FestivalArtist{
		lineupArtist("Alpha", "Friday", "18:00", "19:00", "indie rock"),
		lineupArtist("Beta", "Friday", "18:30", "19:30"),
	}

	it := GenerateGroup(nil, lineup, members, "", DefaultOptions())

	require.Len(t, it.Days, 1)
	require.Len(t, it.Days[0].Slots, 1)

	slot := it.Days[0].Slots[0]
	assert.Equal(t, "Alpha", slot.Artist.ArtistName)
	assert.Equal(t, domain.DecisionConsensus, slot.DecidedBy)
	assert.Empty(t, slot.ConflictResolution)
	require.Len(t, slot.Alternatives, 1)
	assert.Equal(t, "Beta", slot.Alternatives[0].ArtistName)

	require.Len(t, it.Satisfaction, 2)
	assert.Equal(t, 0, it.Satisfaction[0].Compromises)
	assert.Equal(t, 0, it.Satisfaction[1].Compromises)
	assert.NotContains(t, strings.Join(it.Highlights, "\n"), "compromise")
}

func TestGenerateGroup_SatisfactionDefaultsWithoutMustSees(t *testing.T) {
	// Genre-only taste never crosses the must-see bar, so there is
	// nothing to miss and satisfaction stays at 100.
	members := []taste.Member{
		groupMember("usr-1", "Dana", nil, []string{"indie rock"}),
	}
	lineup := []domain.FestivalArtist{
		lineupArtist("Guitar Band", "Friday", "15:00", "16:00", "indie rock"),
	}

	it := GenerateGroup(nil, lineup, members, "", DefaultOptions())

	require.Len(t, it.Satisfaction, 1)
	assert.Equal(t, 0, it.Satisfaction[0].MustSeesTotal)
	assert.Equal(t, 100, it.Satisfaction[0].SatisfactionScore)
}

func TestGenerateGroup_ZeroScoreActsOnlyPadSparseDays(t *testing.T) {
	members := []taste.Member{
		groupMember("usr-1", "Ada", []string{"One", "Two", "Three"}, nil),
	}
	lineup := []domain.FestivalArtist{
		lineupArtist("One", "Friday", "12:00", "13:00"),
		lineupArtist("Two", "Friday", "15:00", "16:00"),
		lineupArtist("Three", "Friday", "18:00", "19:00"),
		lineupArtist("Nobody's Pick", "Friday", "21:30", "22:30"),
	}

	it := GenerateGroup(nil, lineup, members, "", DefaultOptions())

	require.Len(t, it.Days, 1)
	var names []string
	for _, s := range it.Days[0].Slots {
		names = append(names, s.Artist.ArtistName)
	}
	assert.NotContains(t, names, "Nobody's Pick")
	assert.Len(t, names, 3)
}

func TestGenerateGroup_EmptyLineup(t *testing.T) {
	members := []taste.Member{groupMember("usr-1", "Ada", nil, nil)}

	it := GenerateGroup(nil, nil, members, "", DefaultOptions())

	assert.Empty(t, it.Days)
	assert.Zero(t, it.TotalScore)
	assert.Zero(t, it.ConsensusRate)
	require.Len(t, it.Satisfaction, 1)
	assert.Equal(t, 100, it.Satisfaction[0].SatisfactionScore)
}
