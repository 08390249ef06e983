package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminCredential is a row in the dedicated admin login table. Admin
// passwords are stored bcrypt-hashed like worker passwords.
type AdminCredential struct {
	AccountID    uuid.UUID `json:"account_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
