package jobs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/madhav-mp2006/crewx-official/internal/models"
	"github.com/madhav-mp2006/crewx-official/internal/notify"
)

var (
	// ErrJobNotOpen is returned when enrolling in a closed or completed job.
	ErrJobNotOpen = errors.New("job is not open for enrollment")
	// ErrJobFull is returned when the job has no open slots.
	ErrJobFull = errors.New("job is at capacity")
	// ErrAlreadyEnrolled is returned on a duplicate (worker, job) enrollment.
	ErrAlreadyEnrolled = errors.New("already enrolled in this job")
	// ErrJobNotFound is returned when the job id matches no row.
	ErrJobNotFound = errors.New("job not found")
)

// JobStore is the job persistence the service needs.
type JobStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	CreateTx(ctx context.Context, tx pgx.Tx, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Job, error)
	IncrementEnrolled(ctx context.Context, tx pgx.Tx, id uuid.UUID) (enrolledCount, capacity int, err error)
	DecrementEnrolled(ctx context.Context, tx pgx.Tx, id uuid.UUID) (enrolledCount int, status string, autoClosed bool, err error)
	SetStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, autoClosed bool) error
	Update(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EnrollmentStore is the enrollment persistence the service needs.
type EnrollmentStore interface {
	InsertTx(ctx context.Context, tx pgx.Tx, e *models.Enrollment) error
	DeleteTx(ctx context.Context, tx pgx.Tx, jobID, workerID uuid.UUID) (bool, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*models.Enrollment, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Enrollment, error)
}

// InsertFanoutTxFunc enqueues the notification fan-out within the given
// transaction. Provided by main using river.Client.InsertTx.
type InsertFanoutTxFunc func(ctx context.Context, tx pgx.Tx, args notify.FanoutArgs) error

type Service interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context) ([]*models.Job, error)
	ListOpenJobs(ctx context.Context) ([]*models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	SetJobStatus(ctx context.Context, jobID uuid.UUID, status string) error
	DeleteJob(ctx context.Context, jobID uuid.UUID) error

	Enroll(ctx context.Context, workerID, jobID uuid.UUID) error
	Cancel(ctx context.Context, workerID, jobID uuid.UUID) error
	ListEnrollmentsByJob(ctx context.Context, jobID uuid.UUID) ([]*models.Enrollment, error)
	ListEnrollmentsByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Enrollment, error)
}

type service struct {
	jobs         JobStore
	enrollments  EnrollmentStore
	insertFanout InsertFanoutTxFunc
}

// NewService creates a jobs service. insertFanout is typically a closure
// over river.Client.InsertTx.
func NewService(jobs JobStore, enrollments EnrollmentStore, insertFanout InsertFanoutTxFunc) Service {
	return &service{jobs: jobs, enrollments: enrollments, insertFanout: insertFanout}
}

var _ Service = (*service)(nil)

// CreateJob inserts the job and enqueues the new-job broadcast in the same
// transaction, so the fan-out only runs for jobs that committed.
func (s *service) CreateJob(ctx context.Context, j *models.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	tx, err := s.jobs.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.jobs.CreateTx(ctx, tx, j); err != nil {
		return err
	}
	if err := s.insertFanout(ctx, tx, notify.FanoutArgs{
		JobID:    j.ID,
		Title:    "New job: " + j.Title,
		Message:  j.Location + ", " + j.EventDate.Format("2006-01-02") + " " + j.StartTime + "-" + j.EndTime,
		Category: models.NotificationCategoryNewJob,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Enroll takes a slot and inserts the enrollment row in one transaction.
// The conditional increment is the capacity guard; the composite unique
// constraint is the duplicate guard. Either failure rolls back both writes.
func (s *service) Enroll(ctx context.Context, workerID, jobID uuid.UUID) error {
	tx, err := s.jobs.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	enrolledCount, capacity, err := s.jobs.IncrementEnrolled(ctx, tx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.classifyEnrollFailure(ctx, jobID)
		}
		return err
	}
	e := &models.Enrollment{ID: uuid.New(), JobID: jobID, WorkerID: workerID}
	if err := s.enrollments.InsertTx(ctx, tx, e); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyEnrolled
		}
		return err
	}
	if enrolledCount >= capacity {
		if err := s.jobs.SetStatus(ctx, tx, jobID, models.JobStatusClosed, true); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// classifyEnrollFailure turns the failed increment guard into a specific
// error: the job is closed, completed, full, or gone.
func (s *service) classifyEnrollFailure(ctx context.Context, jobID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrJobNotFound
		}
		return err
	}
	if job.Status != models.JobStatusOpen {
		return ErrJobNotOpen
	}
	return ErrJobFull
}

// Cancel removes the enrollment and frees the slot. Cancelling without an
// enrollment is a no-op: the count is never decremented. A job closed by
// reaching capacity reopens; a manually closed job stays closed.
func (s *service) Cancel(ctx context.Context, workerID, jobID uuid.UUID) error {
	tx, err := s.jobs.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	deleted, err := s.enrollments.DeleteTx(ctx, tx, jobID, workerID)
	if err != nil {
		return err
	}
	if !deleted {
		return tx.Commit(ctx)
	}
	_, status, autoClosed, err := s.jobs.DecrementEnrolled(ctx, tx, jobID)
	if err != nil {
		return err
	}
	if status == models.JobStatusClosed && autoClosed {
		if err := s.jobs.SetStatus(ctx, tx, jobID, models.JobStatusOpen, false); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *service) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

func (s *service) ListJobs(ctx context.Context) ([]*models.Job, error) {
	return s.jobs.List(ctx)
}

func (s *service) ListOpenJobs(ctx context.Context) ([]*models.Job, error) {
	return s.jobs.ListByStatus(ctx, models.JobStatusOpen)
}

func (s *service) UpdateJob(ctx context.Context, j *models.Job) error {
	return s.jobs.Update(ctx, j)
}

// SetJobStatus is the admin's manual status override. Manual changes clear
// the auto_closed flag so cancellations don't reopen them.
func (s *service) SetJobStatus(ctx context.Context, jobID uuid.UUID, status string) error {
	tx, err := s.jobs.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := s.jobs.SetStatus(ctx, tx, jobID, status, false); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *service) DeleteJob(ctx context.Context, jobID uuid.UUID) error {
	return s.jobs.Delete(ctx, jobID)
}

func (s *service) ListEnrollmentsByJob(ctx context.Context, jobID uuid.UUID) ([]*models.Enrollment, error) {
	return s.enrollments.ListByJob(ctx, jobID)
}

func (s *service) ListEnrollmentsByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Enrollment, error) {
	return s.enrollments.ListByWorker(ctx, workerID)
}
