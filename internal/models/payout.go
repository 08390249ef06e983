package models

import (
	"time"

	"github.com/google/uuid"
)

// Payout request statuses. APPROVED and REJECTED are terminal.
const (
	PayoutStatusPending  = "PENDING"
	PayoutStatusApproved = "APPROVED"
	PayoutStatusRejected = "REJECTED"
)

type PayoutRequest struct {
	ID          uuid.UUID  `json:"id"`
	WorkerID    uuid.UUID  `json:"worker_id"`
	AmountCents int64      `json:"amount_cents"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
