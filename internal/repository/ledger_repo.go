package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// CreateTx inserts a balance entry inside the given transaction.
func (r *LedgerRepo) CreateTx(ctx context.Context, tx pgx.Tx, e *models.BalanceEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO balance_entries (id, account_id, payout_id, job_id, entry_type, amount_cents, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, e.ID, e.AccountID, e.PayoutID, e.JobID, e.EntryType, e.AmountCents, e.BalanceAfter).Scan(&e.CreatedAt)
}

func (r *LedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.BalanceEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, payout_id, job_id, entry_type, amount_cents, balance_after, created_at
		FROM balance_entries WHERE account_id = $1 ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.BalanceEntry
	for rows.Next() {
		var e models.BalanceEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.PayoutID, &e.JobID, &e.EntryType, &e.AmountCents, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
