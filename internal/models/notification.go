package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories.
const (
	NotificationCategoryNewJob   = "new_job"
	NotificationCategoryReminder = "shift_reminder"
	NotificationCategoryPayment  = "payment"
)

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	AccountID uuid.UUID  `json:"account_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Category  string     `json:"category"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}
