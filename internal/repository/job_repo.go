package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type JobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

func (r *JobRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const jobColumns = `id, title, description, location, event_date, start_time, end_time, pay_cents, capacity, enrolled_count, status, auto_closed, created_at, updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	err := row.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.EventDate, &j.StartTime, &j.EndTime, &j.PayCents, &j.Capacity, &j.EnrolledCount, &j.Status, &j.AutoClosed, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepo) CreateTx(ctx context.Context, tx pgx.Tx, j *models.Job) error {
	return tx.QueryRow(ctx, `
		INSERT INTO jobs (id, title, description, location, event_date, start_time, end_time, pay_cents, capacity, enrolled_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 'OPEN')
		RETURNING enrolled_count, status, auto_closed, created_at, updated_at
	`, j.ID, j.Title, j.Description, j.Location, j.EventDate, j.StartTime, j.EndTime, j.PayCents, j.Capacity).
		Scan(&j.EnrolledCount, &j.Status, &j.AutoClosed, &j.CreatedAt, &j.UpdatedAt)
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return scanJob(r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
}

func (r *JobRepo) List(ctx context.Context) ([]*models.Job, error) {
	return r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY event_date ASC`)
}

func (r *JobRepo) ListByStatus(ctx context.Context, status string) ([]*models.Job, error) {
	return r.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY event_date ASC`, status)
}

func (r *JobRepo) queryJobs(ctx context.Context, sql string, args ...any) ([]*models.Job, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

// IncrementEnrolled takes one slot if the job is still open with room.
// Returns the updated count and capacity; pgx.ErrNoRows when the guard
// fails (job closed, completed, or full).
func (r *JobRepo) IncrementEnrolled(ctx context.Context, tx pgx.Tx, id uuid.UUID) (enrolledCount, capacity int, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE jobs SET enrolled_count = enrolled_count + 1, updated_at = now()
		WHERE id = $1 AND status = 'OPEN' AND enrolled_count < capacity
		RETURNING enrolled_count, capacity
	`, id).Scan(&enrolledCount, &capacity)
	return enrolledCount, capacity, err
}

// DecrementEnrolled frees one slot, floored at zero. Returns the updated
// count, status, and auto_closed flag for the reopen decision.
func (r *JobRepo) DecrementEnrolled(ctx context.Context, tx pgx.Tx, id uuid.UUID) (enrolledCount int, status string, autoClosed bool, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE jobs SET enrolled_count = greatest(enrolled_count - 1, 0), updated_at = now()
		WHERE id = $1
		RETURNING enrolled_count, status, auto_closed
	`, id).Scan(&enrolledCount, &status, &autoClosed)
	return enrolledCount, status, autoClosed, err
}

// SetStatus records a status change. autoClosed marks capacity-driven
// closes so a later cancellation knows it may reopen the job.
func (r *JobRepo) SetStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, autoClosed bool) error {
	_, err := tx.Exec(ctx, `
		UPDATE jobs SET status = $2, auto_closed = $3, updated_at = now() WHERE id = $1
	`, id, status, autoClosed)
	return err
}

func (r *JobRepo) Update(ctx context.Context, j *models.Job) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE jobs SET title = $2, description = $3, location = $4, event_date = $5, start_time = $6, end_time = $7, pay_cents = $8, capacity = $9, updated_at = now()
		WHERE id = $1
	`, j.ID, j.Title, j.Description, j.Location, j.EventDate, j.StartTime, j.EndTime, j.PayCents, j.Capacity)
	return err
}

// Delete removes the job; its enrollments cascade.
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM jobs WHERE id = $1", id)
	return err
}
