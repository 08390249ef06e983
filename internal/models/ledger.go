package models

import (
	"time"

	"github.com/google/uuid"
)

// Balance ledger entry types.
const (
	BalanceEntryManualPayment = "manual_payment"
	BalanceEntryPayoutReserve = "payout_reserve"
	BalanceEntryPayoutRefund  = "payout_refund"
)

// BalanceEntry records one balance-affecting operation so worker balances
// stay auditable from persisted history.
type BalanceEntry struct {
	ID           uuid.UUID  `json:"id"`
	AccountID    uuid.UUID  `json:"account_id"`
	PayoutID     *uuid.UUID `json:"payout_id,omitempty"`
	JobID        *uuid.UUID `json:"job_id,omitempty"`
	EntryType    string     `json:"entry_type"`
	AmountCents  int64      `json:"amount_cents"`
	BalanceAfter *int64     `json:"balance_after,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
