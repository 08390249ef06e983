package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one issued login token. The token's jti claim is the session
// row id; a token whose session row is gone no longer validates.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
