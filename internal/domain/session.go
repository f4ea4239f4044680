package domain

import "time"

// Session is one refresh-token grant. The raw token never touches
// disk; only its hash is stored.
type Session struct {
	Record
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Client    string    `json:"client,omitempty"` // e.g. "Encore Web 1.2.0"
}

// Expired reports whether the session can no longer be refreshed.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
