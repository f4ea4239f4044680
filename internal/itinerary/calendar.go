package itinerary

import (
	"fmt"
	"strings"

	"github.com/encoreapp/encore-server/internal/domain"
)

// Calendar renders an itinerary as plain text suitable for pasting
// into notes or a message thread. Each day lists its sets in order
// with the time span, stage and the reason the slot was picked.
func Calendar(it *domain.Itinerary, festivalName string) string {
	var b strings.Builder
	if festivalName != "" {
		fmt.Fprintf(&b, "Your itinerary for %s\n", festivalName)
	} else {
		b.WriteString("Your festival itinerary\n")
	}

	for _, day := range it.Days {
		b.WriteString("\n")
		writeDayHeading(&b, day.Day, day.Date)
		for _, slot := range day.Slots {
			writeEntry(&b, slot.Artist, slot.Reason)
		}
		if len(day.Slots) == 0 {
			b.WriteString("  (nothing scheduled)\n")
		}
	}
	return b.String()
}

// GroupCalendar is the group variant: slots annotate how the group
// decided on them.
func GroupCalendar(it *domain.GroupItinerary, festivalName string) string {
	var b strings.Builder
	if festivalName != "" {
		fmt.Fprintf(&b, "Group itinerary for %s\n", festivalName)
	} else {
		b.WriteString("Group festival itinerary\n")
	}

	for _, day := range it.Days {
		b.WriteString("\n")
		writeDayHeading(&b, day.Day, day.Date)
		for _, slot := range day.Slots {
			writeEntry(&b, slot.Artist, decisionNote(slot))
		}
		if len(day.Slots) == 0 {
			b.WriteString("  (nothing scheduled)\n")
		}
	}
	return b.String()
}

func writeDayHeading(b *strings.Builder, day, date string) {
	if date != "" {
		fmt.Fprintf(b, "%s, %s\n", day, date)
	} else {
		fmt.Fprintf(b, "%s\n", day)
	}
}

func writeEntry(b *strings.Builder, m domain.FestivalArtistMatch, note string) {
	span := "time TBA"
	if win, ok := slotWindow(m.StartTime, m.EndTime); ok {
		span = formatClock(win.start) + "-" + formatClock(win.end)
	}
	fmt.Fprintf(b, "  %s  %s", span, m.ArtistName)
	if m.Stage != "" {
		fmt.Fprintf(b, " (%s)", m.Stage)
	}
	b.WriteString("\n")
	if note != "" {
		fmt.Fprintf(b, "%s%s\n", strings.Repeat(" ", len(span)+4), note)
	}
}

func decisionNote(slot domain.GroupItinerarySlot) string {
	switch slot.DecidedBy {
	case domain.DecisionConsensus:
		return "group consensus"
	case domain.DecisionStrongest:
		return fmt.Sprintf("picked for %s", slot.WinningMember)
	case domain.DecisionCompromise:
		if slot.ConflictResolution != "" {
			return slot.ConflictResolution
		}
		return "compromise pick"
	}
	return ""
}
