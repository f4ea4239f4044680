package itinerary

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultSetMinutes is assumed when a lineup slot has no end time.
const defaultSetMinutes = 60

// parseClock converts "HH:MM" to minutes since midnight. Returns
// ok=false for missing or malformed values; callers treat those slots
// as unschedulable rather than erroring.
func parseClock(s string) (int, bool) {
	h, m, found := strings.Cut(s, ":")
	if !found {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}

// formatClock renders minutes since midnight as "HH:MM".
func formatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// window is a slot's occupied time span in minutes since midnight.
type window struct {
	start int
	end   int
}

// slotWindow derives the occupied window for a lineup slot, assuming
// the default set length when no end time is listed.
func slotWindow(start, end string) (window, bool) {
	s, ok := parseClock(start)
	if !ok {
		return window{}, false
	}
	e, ok := parseClock(end)
	if !ok || e <= s {
		e = s + defaultSetMinutes
	}
	return window{start: s, end: e}, true
}

// conflictsWith reports whether a candidate window violates the rest
// buffer around an occupied one. The buffer is symmetric: neither set
// may start within restMinutes of the other's occupied span, which
// covers travel between stages as well as direct overlap. A gap of
// exactly restMinutes is enough.
func (w window) conflictsWith(other window, restMinutes int) bool {
	return w.start < other.end+restMinutes && other.start < w.end+restMinutes
}
