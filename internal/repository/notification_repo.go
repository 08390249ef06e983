package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

// InsertBatch writes one notification per account id in a single batch.
// Best-effort broadcast: there is no idempotency key, so a retried fan-out
// can duplicate rows.
func (r *NotificationRepo) InsertBatch(ctx context.Context, accountIDs []uuid.UUID, title, message, category string, jobID *uuid.UUID) error {
	batch := &pgx.Batch{}
	for _, accountID := range accountIDs {
		batch.Queue(`
			INSERT INTO notifications (id, account_id, title, message, category, job_id, read)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		`, uuid.New(), accountID, title, message, category, jobID)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *NotificationRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, title, message, category, job_id, read, created_at
		FROM notifications WHERE account_id = $1 ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Title, &n.Message, &n.Category, &n.JobID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, accountID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND account_id = $2
	`, id, accountID)
	return err
}

func (r *NotificationRepo) Delete(ctx context.Context, id, accountID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM notifications WHERE id = $1 AND account_id = $2
	`, id, accountID)
	return err
}

// DeleteReadOlderThan sweeps read notifications created before the cutoff.
func (r *NotificationRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications WHERE read = TRUE AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
