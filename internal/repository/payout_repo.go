package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type PayoutRepo struct {
	pool *pgxpool.Pool
}

func NewPayoutRepo(pool *pgxpool.Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

func (r *PayoutRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *PayoutRepo) InsertTx(ctx context.Context, tx pgx.Tx, p *models.PayoutRequest) error {
	return tx.QueryRow(ctx, `
		INSERT INTO payout_requests (id, worker_id, amount_cents, status)
		VALUES ($1, $2, $3, 'PENDING')
		RETURNING requested_at
	`, p.ID, p.WorkerID, p.AmountCents).Scan(&p.RequestedAt)
}

// Resolve flips a PENDING request to its terminal status and returns the
// worker id and amount for the refund path. Scans pgx.ErrNoRows when the
// request is missing or already resolved.
func (r *PayoutRepo) Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) (workerID uuid.UUID, amountCents int64, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE payout_requests SET status = $2, resolved_at = now()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING worker_id, amount_cents
	`, id, status).Scan(&workerID, &amountCents)
	return workerID, amountCents, err
}

func (r *PayoutRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.PayoutRequest, error) {
	return r.query(ctx, `
		SELECT id, worker_id, amount_cents, status, requested_at, resolved_at
		FROM payout_requests WHERE worker_id = $1 ORDER BY requested_at DESC
	`, workerID)
}

func (r *PayoutRepo) ListByStatus(ctx context.Context, status string) ([]*models.PayoutRequest, error) {
	return r.query(ctx, `
		SELECT id, worker_id, amount_cents, status, requested_at, resolved_at
		FROM payout_requests WHERE status = $1 ORDER BY requested_at ASC
	`, status)
}

func (r *PayoutRepo) query(ctx context.Context, sql string, args ...any) ([]*models.PayoutRequest, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.PayoutRequest
	for rows.Next() {
		var p models.PayoutRequest
		if err := rows.Scan(&p.ID, &p.WorkerID, &p.AmountCents, &p.Status, &p.RequestedAt, &p.ResolvedAt); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
