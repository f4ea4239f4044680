package domain

// NotificationPrefs controls what lands in a user's concert digest.
type NotificationPrefs struct {
	Record
	UserID        string  `json:"user_id"`
	DigestEnabled bool    `json:"digest_enabled"`
	MinMatchScore float64 `json:"min_match_score"` // concerts below this stay out of the digest
	MaxDistanceKm float64 `json:"max_distance_km,omitempty"`
	OnSaleAlerts  bool    `json:"on_sale_alerts"`
}

// DefaultNotificationPrefs returns the prefs a new user starts with.
func DefaultNotificationPrefs(userID string) *NotificationPrefs {
	return &NotificationPrefs{
		UserID:        userID,
		DigestEnabled: true,
		MinMatchScore: 70,
		OnSaleAlerts:  true,
	}
}

// DigestEntry is one concert selected for a user's digest.
type DigestEntry struct {
	Concert AggregatedConcert `json:"concert"`
	Reason  string            `json:"reason,omitempty"`
}
