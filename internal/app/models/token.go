package models

import "time"

// RefreshToken is an opaque, single-use token exchanged for a new access token
type RefreshToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is past its expiry
func (t *RefreshToken) Expired() bool {
	return time.Now().After(t.ExpiresAt)
}
