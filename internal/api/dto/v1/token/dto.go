package token

import (
	"time"
)

// Response is a token as returned by the token service. Secret is only
// populated on create.
type Response struct {
	ID        string     `json:"id"`
	Secret    string     `json:"token,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
