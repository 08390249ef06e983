package models

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	JobStatusOpen      = "OPEN"
	JobStatusClosed    = "CLOSED"
	JobStatusCompleted = "COMPLETED"
)

type Job struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	EventDate     time.Time `json:"event_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	PayCents      int64     `json:"pay_cents"`
	Capacity      int       `json:"capacity"`
	EnrolledCount int       `json:"enrolled_count"`
	Status        string    `json:"status"`
	// AutoClosed marks jobs that were closed by reaching capacity, as
	// opposed to an admin toggling status. Only auto-closed jobs reopen
	// when a cancellation frees a slot.
	AutoClosed bool      `json:"auto_closed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Remaining returns the number of open slots.
func (j *Job) Remaining() int {
	return j.Capacity - j.EnrolledCount
}

// IsFull reports whether the job has no open slots.
func (j *Job) IsFull() bool {
	return j.EnrolledCount >= j.Capacity
}
