package domain

import "strings"

// User is an account holder.
type User struct {
	Record
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	DisplayName  string `json:"display_name"`
	HomeCity     string `json:"home_city,omitempty"`
	IsRoot       bool   `json:"is_root"`
}

// NormalizeEmail lowercases and trims the email for index lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ConnectedService records one linked music service for a user.
// Token plumbing lives at the boundary; the core only needs to know
// which services feed the aggregator.
type ConnectedService struct {
	Record
	UserID  string    `json:"user_id"`
	Service ServiceID `json:"service"`
	// AccountRef is the provider-side account identifier, used to
	// re-fetch on sync. Credentials themselves are not stored here.
	AccountRef string `json:"account_ref,omitempty"`
}
