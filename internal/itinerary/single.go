// Package itinerary turns per-artist festival match results into day
// schedules: greedy by match strength, under a per-day cap and a rest
// buffer between sets.
package itinerary

import (
	"sort"

	"github.com/encoreapp/encore-server/internal/domain"
)

const (
	defaultMaxPerDay        = 8
	defaultRestBreakMinutes = 90

	// recommendedMinScore splits genre-tier matches between the
	// recommended and discovery buckets.
	recommendedMinScore = 50.0

	// minDaySlots is the sparseness threshold below which headliner
	// filler gets added.
	minDaySlots = 3
)

// Options tune schedule generation. Start from DefaultOptions; the
// zero value disables discovery slots entirely.
type Options struct {
	// Days fixes the output day order. When empty the festival's day
	// order is used, falling back to lineup order.
	Days             []string
	MaxPerDay        int
	RestBreakMinutes int
	IncludeDiscovery bool
}

// DefaultOptions returns the product defaults: up to 8 sets a day
// with a 90-minute rest buffer, discovery slots included.
func DefaultOptions() Options {
	return Options{
		MaxPerDay:        defaultMaxPerDay,
		RestBreakMinutes: defaultRestBreakMinutes,
		IncludeDiscovery: true,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxPerDay <= 0 {
		o.MaxPerDay = defaultMaxPerDay
	}
	if o.RestBreakMinutes <= 0 {
		o.RestBreakMinutes = defaultRestBreakMinutes
	}
	return o
}

// Generate builds a single-user itinerary from scored lineup matches.
// Placement is greedy within each priority bucket: must-sees first in
// descending score order, then recommended, then discoveries, then at
// most enough headliner filler to keep a sparse day interesting. An
// artist displaced by an occupied window lands in the occupying
// slot's alternatives, and must-see or recommended misses are
// surfaced as conflicts.
func Generate(fest *domain.Festival, matches []domain.FestivalArtistMatch, opts Options) *domain.Itinerary {
	opts = opts.withDefaults()

	byDay := make(map[string][]domain.FestivalArtistMatch)
	for _, m := range matches {
		byDay[m.Day] = append(byDay[m.Day], m)
	}

	it := &domain.Itinerary{}
	if fest != nil {
		it.FestivalID = fest.ID
	}

	for _, day := range dayOrder(fest, matches, opts) {
		dayMatches, ok := byDay[day]
		if !ok {
			continue
		}
		sched := buildDay(day, dayMatches, opts)
		if fest != nil {
			sched.Date = fest.DateFor(day)
		}
		it.Days = append(it.Days, sched)
	}

	for _, m := range matches {
		if m.MatchType == domain.TierPerfect {
			it.MustSeesTotal++
		}
	}
	for _, d := range it.Days {
		it.TotalScore += d.DayScore
		it.MustSeesCovered += d.MustSees
	}
	it.CoveragePercent = coveragePercent(it.MustSeesCovered, it.MustSeesTotal)
	return it
}

// dayOrder resolves the order days appear in the output: explicit
// options win, then the festival's published day list, then first
// appearance in the lineup.
func dayOrder(fest *domain.Festival, matches []domain.FestivalArtistMatch, opts Options) []string {
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
	for _, m := range matches {
		if !seen[m.Day] {
			seen[m.Day] = true
			days = append(days, m.Day)
		}
	}
	return days
}

func buildDay(day string, matches []domain.FestivalArtistMatch, opts Options) domain.DaySchedule {
	var mustSee, recommended, discovery, filler []domain.FestivalArtistMatch
	for _, m := range matches {
		switch {
		case m.MatchType == domain.TierPerfect:
			mustSee = append(mustSee, m)
		case m.MatchType == domain.TierGenre && m.MatchScore >= recommendedMinScore:
			recommended = append(recommended, m)
		case m.MatchType == domain.TierGenre || m.MatchType == domain.TierDiscovery:
			discovery = append(discovery, m)
		default:
			filler = append(filler, m)
		}
	}
	sortByScore(mustSee)
	sortByScore(recommended)
	sortByScore(discovery)
	sortHeadlinersFirst(filler)

	b := &dayBuilder{day: day, opts: opts}
	b.placeAll(mustSee, domain.PriorityMustSee)
	b.placeAll(recommended, domain.PriorityRecommended)
	if opts.IncludeDiscovery {
		b.placeAll(discovery, domain.PriorityDiscovery)
	}
	for _, f := range filler {
		if len(b.slots) >= minDaySlots {
			break
		}
		b.place(f, domain.PriorityFiller)
	}
	return b.finish()
}

// dayBuilder accumulates one day's placements. windows runs parallel
// to slots.
type dayBuilder struct {
	day       string
	opts      Options
	slots     []domain.ItinerarySlot
	windows   []window
	conflicts []domain.Conflict
}

func (b *dayBuilder) placeAll(matches []domain.FestivalArtistMatch, p domain.SlotPriority) {
	for _, m := range matches {
		b.place(m, p)
	}
}

func (b *dayBuilder) place(m domain.FestivalArtistMatch, p domain.SlotPriority) bool {
	win, ok := slotWindow(m.StartTime, m.EndTime)
	if !ok {
		// No listed set time; nothing to schedule against.
		return false
	}
	if len(b.slots) >= b.opts.MaxPerDay {
		return false
	}
	for i := range b.windows {
		if b.windows[i].conflictsWith(win, b.opts.RestBreakMinutes) {
			b.slots[i].Alternatives = append(b.slots[i].Alternatives, m)
			if p == domain.PriorityMustSee || p == domain.PriorityRecommended {
				b.conflicts = append(b.conflicts, domain.Conflict{
					Day:       b.day,
					Missed:    m.ArtistName,
					Kept:      b.slots[i].Artist.ArtistName,
					StartTime: m.StartTime,
				})
			}
			return false
		}
	}
	b.slots = append(b.slots, domain.ItinerarySlot{
		Artist:   m,
		Priority: p,
		Reason:   slotReason(m, p),
	})
	b.windows = append(b.windows, win)
	return true
}

// finish re-sorts the day chronologically and rolls up its aggregates.
func (b *dayBuilder) finish() domain.DaySchedule {
	order := make([]int, len(b.slots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.windows[order[i]].start < b.windows[order[j]].start
	})

	sched := domain.DaySchedule{Day: b.day, Conflicts: b.conflicts}
	for _, idx := range order {
		slot := b.slots[idx]
		sched.Slots = append(sched.Slots, slot)
		sched.DayScore += slot.Artist.MatchScore
		if slot.Priority == domain.PriorityMustSee {
			sched.MustSees++
		}
	}
	return sched
}

func slotReason(m domain.FestivalArtistMatch, p domain.SlotPriority) string {
	if m.MatchReason != "" {
		return m.MatchReason
	}
	switch p {
	case domain.PriorityMustSee:
		return "One of your top artists"
	case domain.PriorityRecommended:
		return "Strong genre match"
	case domain.PriorityDiscovery:
		return "Worth discovering"
	default:
		return "Festival headliner"
	}
}

func sortByScore(ms []domain.FestivalArtistMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].MatchScore != ms[j].MatchScore {
			return ms[i].MatchScore > ms[j].MatchScore
		}
		return ms[i].ArtistName < ms[j].ArtistName
	})
}

func sortHeadlinersFirst(ms []domain.FestivalArtistMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Headliner != ms[j].Headliner {
			return ms[i].Headliner
		}
		return ms[i].ArtistName < ms[j].ArtistName
	})
}

// coveragePercent is covered/total as a rounded percentage, 100 when
// there was nothing to cover.
func coveragePercent(covered, total int) int {
	if total == 0 {
		return 100
	}
	return int(float64(covered)/float64(total)*100 + 0.5)
}
