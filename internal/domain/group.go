package domain

// GroupMember is one user's membership in a group.
type GroupMember struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name,omitempty"`
	JoinedAt string `json:"joined_at,omitempty"`
}

// Group is a set of 2+ users who plan concerts and festivals together.
type Group struct {
	Record
	Name      string        `json:"name"`
	OwnerID   string        `json:"owner_id"`
	Members   []GroupMember `json:"members"`
	InviteKey string        `json:"invite_key,omitempty"`
}

// HasMember reports whether the user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the user IDs of all members.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}

// GroupMatchLevel classifies how broadly a concert matches a group.
type GroupMatchLevel string

const (
	MatchUniversal GroupMatchLevel = "universal" // every member matched
	MatchMajority  GroupMatchLevel = "majority"  // at least half matched
	MatchSome      GroupMatchLevel = "some"
)

// MemberReason is one matching member's one-line justification.
type MemberReason struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// GroupMatch is a concert scored against a whole group. Score is a
// relative ranking signal and may exceed 100 (capped at 150); it is
// not a percentage.
type GroupMatch struct {
	Level          GroupMatchLevel `json:"level"`
	Score          float64         `json:"score"`
	MatchedMembers int             `json:"matched_members"`
	TotalMembers   int             `json:"total_members"`
	Reasons        []MemberReason  `json:"reasons,omitempty"`
}

// OverlapItem is an artist or genre shared by 2+ members, with the
// number of members whose top lists include it.
type OverlapItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
