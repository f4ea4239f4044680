package domain

// SlotPriority explains why a slot earned its place in the schedule.
type SlotPriority string

const (
	PriorityMustSee     SlotPriority = "must-see"
	PriorityRecommended SlotPriority = "recommended"
	PriorityDiscovery   SlotPriority = "discovery"
	PriorityFiller      SlotPriority = "filler"
)

// ItinerarySlot is one scheduled artist in a single-user itinerary.
// Alternatives holds artists displaced by this slot's time window.
type ItinerarySlot struct {
	Artist       FestivalArtistMatch   `json:"artist"`
	Priority     SlotPriority          `json:"priority"`
	Reason       string                `json:"reason"`
	Alternatives []FestivalArtistMatch `json:"alternatives,omitempty"`
}

// Conflict records an artist that could not be placed because of an
// already-scheduled slot ("you're missing X because of Y").
type Conflict struct {
	Day       string `json:"day"`
	Missed    string `json:"missed"`
	Kept      string `json:"kept"`
	StartTime string `json:"start_time,omitempty"`
}

// DaySchedule is one day's chronologically ordered slots.
type DaySchedule struct {
	Day        string          `json:"day"`
	Date       string          `json:"date,omitempty"`
	Slots      []ItinerarySlot `json:"slots"`
	DayScore   float64         `json:"day_score"`
	MustSees   int             `json:"must_sees"`
	Conflicts  []Conflict      `json:"conflicts,omitempty"`
}

// Itinerary is a generated single-user festival schedule. Built fresh
// on each generation call; a swap produces a new value (copy-on-write),
// never mutates the canonical one.
type Itinerary struct {
	FestivalID      string        `json:"festival_id"`
	Days            []DaySchedule `json:"days"`
	TotalScore      float64       `json:"total_score"`
	MustSeesTotal   int           `json:"must_sees_total"`
	MustSeesCovered int           `json:"must_sees_covered"`
	CoveragePercent int           `json:"coverage_percent"`
}

// GroupDecision labels why a group slot was chosen.
type GroupDecision string

const (
	// DecisionConsensus means full agreement in either direction:
	// every member matched the artist, or none did.
	DecisionConsensus GroupDecision = "consensus"
	// DecisionStrongest means uneven support with no displaced rival;
	// the slot is attributed to the highest-scoring member.
	DecisionStrongest GroupDecision = "strongest-match"
	// DecisionCompromise means an unevenly supported slot displaced a
	// conflicting artist that would have scored higher for some other
	// member. Consensus slots never escalate here.
	DecisionCompromise GroupDecision = "compromise"
)

// GroupMemberMatch is one member's view of a lineup artist.
type GroupMemberMatch struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name,omitempty"`
	MatchType  MatchTier `json:"match_type"`
	MatchScore float64   `json:"match_score"`
}

// GroupItinerarySlot is one scheduled artist in a group itinerary.
type GroupItinerarySlot struct {
	Artist             FestivalArtistMatch   `json:"artist"`
	DecidedBy          GroupDecision         `json:"decided_by"`
	WinningMember      string                `json:"winning_member,omitempty"`
	MemberMatches      []GroupMemberMatch    `json:"member_matches"`
	GroupScore         float64               `json:"group_score"`
	Alternatives       []FestivalArtistMatch `json:"alternatives,omitempty"`
	ConflictResolution string                `json:"conflict_resolution,omitempty"`
}

// GroupDaySchedule is one day of a group itinerary.
type GroupDaySchedule struct {
	Day      string               `json:"day"`
	Date     string               `json:"date,omitempty"`
	Slots    []GroupItinerarySlot `json:"slots"`
	DayScore float64              `json:"day_score"`
}

// MemberSatisfaction tracks how one member fared across the whole
// group itinerary. Compromises counts how often the member was the
// losing side of a compromise decision; SatisfactionScore is 100 when
// the member had no must-sees to miss.
type MemberSatisfaction struct {
	UserID            string `json:"user_id"`
	Name              string `json:"name,omitempty"`
	MustSeesTotal     int    `json:"must_sees_total"`
	MustSeesCovered   int    `json:"must_sees_covered"`
	Compromises       int    `json:"compromises"`
	SatisfactionScore int    `json:"satisfaction_score"`
}

// GroupItinerary is a generated multi-member festival schedule.
type GroupItinerary struct {
	FestivalID    string               `json:"festival_id"`
	GroupID       string               `json:"group_id,omitempty"`
	Days          []GroupDaySchedule   `json:"days"`
	TotalScore    float64              `json:"total_score"`
	ConsensusRate int                  `json:"consensus_rate"` // percent of slots decided by consensus
	Satisfaction  []MemberSatisfaction `json:"satisfaction"`
	Highlights    []string             `json:"highlights,omitempty"`
}
