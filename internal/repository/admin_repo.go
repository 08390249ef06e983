package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

// AdminRepo backs the parallel admin login path: credentials live in a
// dedicated table separate from worker accounts.
type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

// GetCredential returns the admin credential for the email, matched
// case-insensitively.
func (r *AdminRepo) GetCredential(ctx context.Context, email string) (*models.AdminCredential, error) {
	var c models.AdminCredential
	err := r.pool.QueryRow(ctx, `
		SELECT account_id, email, password_hash, created_at
		FROM admin_credentials WHERE email = lower($1)
	`, email).Scan(&c.AccountID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AdminRepo) CreateCredential(ctx context.Context, accountID uuid.UUID, email, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admin_credentials (account_id, email, password_hash)
		VALUES ($1, lower($2), $3)
	`, accountID, email, passwordHash)
	return err
}
