package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment joins a worker to a job. At most one row exists per
// (job, worker) pair, enforced by a composite unique constraint.
type Enrollment struct {
	ID         uuid.UUID `json:"id"`
	JobID      uuid.UUID `json:"job_id"`
	WorkerID   uuid.UUID `json:"worker_id"`
	Paid       bool      `json:"paid"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
