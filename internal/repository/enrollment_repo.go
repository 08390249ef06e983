package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type EnrollmentRepo struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepo(pool *pgxpool.Pool) *EnrollmentRepo {
	return &EnrollmentRepo{pool: pool}
}

// InsertTx adds the enrollment row. The composite unique constraint on
// (job_id, worker_id) surfaces duplicates as pg error 23505.
func (r *EnrollmentRepo) InsertTx(ctx context.Context, tx pgx.Tx, e *models.Enrollment) error {
	return tx.QueryRow(ctx, `
		INSERT INTO enrollments (id, job_id, worker_id, paid)
		VALUES ($1, $2, $3, FALSE)
		RETURNING enrolled_at
	`, e.ID, e.JobID, e.WorkerID).Scan(&e.EnrolledAt)
}

// DeleteTx removes the worker's enrollment for the job and reports whether
// a row existed. Cancelling a missing enrollment is a no-op for callers.
func (r *EnrollmentRepo) DeleteTx(ctx context.Context, tx pgx.Tx, jobID, workerID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
		DELETE FROM enrollments WHERE job_id = $1 AND worker_id = $2
	`, jobID, workerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *EnrollmentRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*models.Enrollment, error) {
	return r.query(ctx, `
		SELECT id, job_id, worker_id, paid, enrolled_at
		FROM enrollments WHERE job_id = $1 ORDER BY enrolled_at ASC
	`, jobID)
}

func (r *EnrollmentRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.Enrollment, error) {
	return r.query(ctx, `
		SELECT id, job_id, worker_id, paid, enrolled_at
		FROM enrollments WHERE worker_id = $1 ORDER BY enrolled_at DESC
	`, workerID)
}

func (r *EnrollmentRepo) query(ctx context.Context, sql string, args ...any) ([]*models.Enrollment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.JobID, &e.WorkerID, &e.Paid, &e.EnrolledAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// MarkPaid flips the paid flag, the only update enrollments ever receive.
func (r *EnrollmentRepo) MarkPaid(ctx context.Context, tx pgx.Tx, jobID, workerID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE enrollments SET paid = TRUE WHERE job_id = $1 AND worker_id = $2
	`, jobID, workerID)
	return err
}
