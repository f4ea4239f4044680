package itinerary

import (
	"fmt"

	"github.com/encoreapp/encore-server/internal/domain"
)

// Swap returns a copy of the itinerary with one slot's artist replaced
// by one of its alternatives (or any other lineup artist). The
// displaced artist moves into the new slot's alternatives and day and
// itinerary aggregates are recomputed. The swapped slot keeps its time
// window, so no conflict re-detection is needed; the input itinerary
// is never mutated.
func Swap(it *domain.Itinerary, day string, slotIndex int, replacement domain.FestivalArtistMatch) (*domain.Itinerary, error) {
	dayIdx := -1
	for i := range it.Days {
		if it.Days[i].Day == day {
			dayIdx = i
			break
		}
	}
	if dayIdx < 0 {
		return nil, fmt.Errorf("itinerary has no day %q", day)
	}
	if slotIndex < 0 || slotIndex >= len(it.Days[dayIdx].Slots) {
		return nil, fmt.Errorf("day %q has no slot %d", day, slotIndex)
	}

	out := *it
	out.Days = append([]domain.DaySchedule(nil), it.Days...)
	sched := &out.Days[dayIdx]
	sched.Slots = append([]domain.ItinerarySlot(nil), sched.Slots...)

	old := sched.Slots[slotIndex]
	priority := priorityFor(replacement)

	// The displaced artist becomes an alternative; the replacement, if
	// it was one, stops being one.
	alts := make([]domain.FestivalArtistMatch, 0, len(old.Alternatives)+1)
	for _, alt := range old.Alternatives {
		if sameLineupArtist(alt.FestivalArtist, replacement.FestivalArtist) {
			continue
		}
		alts = append(alts, alt)
	}
	alts = append(alts, old.Artist)

	sched.Slots[slotIndex] = domain.ItinerarySlot{
		Artist:       replacement,
		Priority:     priority,
		Reason:       slotReason(replacement, priority),
		Alternatives: alts,
	}

	sched.DayScore = 0
	sched.MustSees = 0
	for _, s := range sched.Slots {
		sched.DayScore += s.Artist.MatchScore
		if s.Priority == domain.PriorityMustSee {
			sched.MustSees++
		}
	}

	out.TotalScore = 0
	out.MustSeesCovered = 0
	for _, d := range out.Days {
		out.TotalScore += d.DayScore
		out.MustSeesCovered += d.MustSees
	}
	out.CoveragePercent = coveragePercent(out.MustSeesCovered, out.MustSeesTotal)
	return &out, nil
}

// priorityFor rebuckets a match the same way generation does.
func priorityFor(m domain.FestivalArtistMatch) domain.SlotPriority {
	switch {
	case m.MatchType == domain.TierPerfect:
		return domain.PriorityMustSee
	case m.MatchType == domain.TierGenre && m.MatchScore >= recommendedMinScore:
		return domain.PriorityRecommended
	case m.MatchType == domain.TierGenre || m.MatchType == domain.TierDiscovery:
		return domain.PriorityDiscovery
	default:
		return domain.PriorityFiller
	}
}

func sameLineupArtist(a, b domain.FestivalArtist) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return a.ArtistName == b.ArtistName && a.Day == b.Day
}
