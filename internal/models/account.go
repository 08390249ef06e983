package models

import (
	"time"

	"github.com/google/uuid"
)

// Account roles.
const (
	RoleAdmin  = "ADMIN"
	RoleWorker = "WORKER"
)

type Account struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	DisplayName     string    `json:"display_name"`
	Role            string    `json:"role"`
	PasswordHash    *string   `json:"-"`
	BalanceCents    int64     `json:"balance_cents"`
	PaymentQR       *string   `json:"payment_qr,omitempty"`
	Age             *int      `json:"age,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
