package itinerary

import (
	"fmt"
	"sort"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/taste"
)

// memberMustSeeScore is the per-member score at which an artist counts
// toward that member's personal must-sees for satisfaction tracking.
const memberMustSeeScore = 80.0

// groupCandidate is one lineup artist viewed by every member. rep is
// the winning member's match, used as the slot's representative
// artist; score is the group mean.
type groupCandidate struct {
	artist    domain.FestivalArtist
	perMember []domain.FestivalArtistMatch
	matches   []domain.GroupMemberMatch
	rep       domain.FestivalArtistMatch
	bestIdx   int
	score     float64
}

// GenerateGroup builds a shared itinerary for a group of members. Each
// lineup artist is scored per member; candidates are placed greedily
// by the group mean under the same rest-buffer and per-day cap rules
// as single-user generation. Every slot records how it was decided:
// consensus when members fully agree (all matched, or none did),
// strongest-match when support is uneven, compromise when a displaced
// rival would have scored higher for some member.
func GenerateGroup(fest *domain.Festival, lineup []domain.FestivalArtist, members []taste.Member, groupID string, opts Options) *domain.GroupItinerary {
	opts = opts.withDefaults()

	cands := scoreCandidates(lineup, members)
	stats := make([]memberStats, len(members))
	for _, c := range cands {
		for i, pm := range c.perMember {
			if pm.MatchScore >= memberMustSeeScore {
				stats[i].mustSeesTotal++
			}
		}
	}

	byDay := make(map[string][]groupCandidate)
	for _, c := range cands {
		byDay[c.artist.Day] = append(byDay[c.artist.Day], c)
	}

	it := &domain.GroupItinerary{GroupID: groupID}
	if fest != nil {
		it.FestivalID = fest.ID
	}

	consensusSlots, totalSlots := 0, 0
	for _, day := range groupDayOrder(fest, lineup, opts) {
		dayCands, ok := byDay[day]
		if !ok {
			continue
		}
		sort.SliceStable(dayCands, func(i, j int) bool {
			if dayCands[i].score != dayCands[j].score {
				return dayCands[i].score > dayCands[j].score
			}
			return dayCands[i].artist.ArtistName < dayCands[j].artist.ArtistName
		})

		b := &groupDayBuilder{day: day, opts: opts, members: members, stats: stats}
		for _, c := range dayCands {
			// Zero-score artists are filler; only keep a sparse day company.
			if c.score == 0 && len(b.slots) >= minDaySlots {
				continue
			}
			b.place(c)
		}
		sched := b.finish()
		if fest != nil {
			sched.Date = fest.DateFor(day)
		}
		it.Days = append(it.Days, sched)

		it.TotalScore += sched.DayScore
		for _, s := range sched.Slots {
			totalSlots++
			if s.DecidedBy == domain.DecisionConsensus {
				consensusSlots++
			}
		}
	}

	if totalSlots > 0 {
		it.ConsensusRate = consensusSlots * 100 / totalSlots
	}
	it.Satisfaction = satisfaction(members, stats)
	it.Highlights = highlights(it, stats)
	return it
}

func scoreCandidates(lineup []domain.FestivalArtist, members []taste.Member) []groupCandidate {
	cands := make([]groupCandidate, 0, len(lineup))
	for _, fa := range lineup {
		c := groupCandidate{artist: fa, bestIdx: -1}
		var total float64
		for i, m := range members {
			match := taste.MatchFestivalArtist(fa, m.Profile)
			c.perMember = append(c.perMember, match)
			c.matches = append(c.matches, domain.GroupMemberMatch{
				UserID:     m.UserID,
				Name:       m.Name,
				MatchType:  match.MatchType,
				MatchScore: match.MatchScore,
			})
			total += match.MatchScore
			if c.bestIdx == -1 || match.MatchScore > c.perMember[c.bestIdx].MatchScore {
				c.bestIdx = i
			}
		}
		if len(members) > 0 {
			c.score = total / float64(len(members))
			c.rep = c.perMember[c.bestIdx]
		} else {
			c.rep = domain.FestivalArtistMatch{FestivalArtist: fa, MatchType: domain.TierNone}
		}
		cands = append(cands, c)
	}
	return cands
}

func groupDayOrder(fest *domain.Festival, lineup []domain.FestivalArtist, opts Options) []string {
	if len(opts.Days) > 0 {
		return opts.Days
	}
	if fest != nil && len(fest.Days) > 0 {
		days := make([]string, len(fest.Days))
		for i, d := range fest.Days {
			days[i] = d.Name
		}
		return days
	}
	var days []string
	seen := make(map[string]bool)
	for _, fa := range lineup {
		if !seen[fa.Day] {
			seen[fa.Day] = true
			days = append(days, fa.Day)
		}
	}
	return days
}

type memberStats struct {
	mustSeesTotal   int
	mustSeesCovered int
	compromises     int
}

type groupDayBuilder struct {
	day     string
	opts    Options
	members []taste.Member
	stats   []memberStats

	slots   []domain.GroupItinerarySlot
	kept    []groupCandidate // parallel to slots, for compromise checks
	windows []window
}

func (b *groupDayBuilder) place(c groupCandidate) {
	win, ok := slotWindow(c.artist.StartTime, c.artist.EndTime)
	if !ok {
		return
	}
	if len(b.slots) >= b.opts.MaxPerDay {
		return
	}

	for i := range b.windows {
		if b.windows[i].conflictsWith(win, b.opts.RestBreakMinutes) {
			b.slots[i].Alternatives = append(b.slots[i].Alternatives, c.rep)
			b.resolveConflict(i, c)
			return
		}
	}

	slot := domain.GroupItinerarySlot{
		Artist:        c.rep,
		MemberMatches: c.matches,
		GroupScore:    c.score,
	}
	nonZero := 0
	for _, m := range c.matches {
		if m.MatchScore > 0 {
			nonZero++
		}
	}
	if nonZero == 0 || nonZero == len(c.matches) {
		slot.DecidedBy = domain.DecisionConsensus
	} else {
		slot.DecidedBy = domain.DecisionStrongest
		slot.WinningMember = b.memberName(c.bestIdx)
	}

	for i, pm := range c.perMember {
		if pm.MatchScore >= memberMustSeeScore {
			b.stats[i].mustSeesCovered++
		}
	}

	b.slots = append(b.slots, slot)
	b.kept = append(b.kept, c)
	b.windows = append(b.windows, win)
}

// resolveConflict runs when a candidate is displaced by the slot at
// index i. If some member wanted the displaced artist more than the
// kept one, an uneven slot escalates from strongest-match to
// compromise and that member logs the loss. A consensus slot stays
// consensus; with the whole group already behind the kept artist no
// compromise decision is made, so nothing is counted.
func (b *groupDayBuilder) resolveConflict(i int, displaced groupCandidate) {
	kept := b.kept[i]
	loser, worst := -1, 0.0
	for j := range displaced.perMember {
		diff := displaced.perMember[j].MatchScore - kept.perMember[j].MatchScore
		if diff > worst {
			worst = diff
			loser = j
		}
	}
	if loser < 0 {
		return
	}

	switch b.slots[i].DecidedBy {
	case domain.DecisionStrongest:
		b.slots[i].DecidedBy = domain.DecisionCompromise
		b.slots[i].ConflictResolution = fmt.Sprintf(
			"%s preferred %s here; kept %s for the group",
			b.memberName(loser), displaced.artist.ArtistName, kept.artist.ArtistName,
		)
		b.stats[loser].compromises++
	case domain.DecisionCompromise:
		b.stats[loser].compromises++
	}
}

func (b *groupDayBuilder) memberName(i int) string {
	if b.members[i].Name != "" {
		return b.members[i].Name
	}
	return b.members[i].UserID
}

func (b *groupDayBuilder) finish() domain.GroupDaySchedule {
	order := make([]int, len(b.slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.windows[order[i]].start < b.windows[order[j]].start
	})

	sched := domain.GroupDaySchedule{Day: b.day}
	for _, idx := range order {
		sched.Slots = append(sched.Slots, b.slots[idx])
		sched.DayScore += b.slots[idx].GroupScore
	}
	return sched
}

func satisfaction(members []taste.Member, stats []memberStats) []domain.MemberSatisfaction {
	out := make([]domain.MemberSatisfaction, len(members))
	for i, m := range members {
		s := domain.MemberSatisfaction{
			UserID:          m.UserID,
			Name:            m.Name,
			MustSeesTotal:   stats[i].mustSeesTotal,
			MustSeesCovered: stats[i].mustSeesCovered,
			Compromises:     stats[i].compromises,
		}
		s.SatisfactionScore = coveragePercent(s.MustSeesCovered, s.MustSeesTotal)
		out[i] = s
	}
	return out
}

func highlights(it *domain.GroupItinerary, stats []memberStats) []string {
	var out []string
	if it.ConsensusRate > 0 {
		out = append(out, fmt.Sprintf("%d%% of the schedule was full-group consensus", it.ConsensusRate))
	}
	compromises := 0
	for _, s := range stats {
		compromises += s.compromises
	}
	switch {
	case compromises == 1:
		out = append(out, "1 compromise was needed to fit everyone in")
	case compromises > 1:
		out = append(out, fmt.Sprintf("%d compromises were needed to fit everyone in", compromises))
	}
	if len(it.Satisfaction) > 0 {
		total := 0
		for _, s := range it.Satisfaction {
			total += s.SatisfactionScore
		}
		out = append(out, fmt.Sprintf("Average member satisfaction: %d%%", total/len(it.Satisfaction)))
	}
	return out
}
