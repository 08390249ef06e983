package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

var (
	// ErrInsufficientFunds is returned when the worker's balance is below the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotPending is returned when resolving a payout that is missing or already terminal.
	ErrNotPending = errors.New("payout request is not pending")
	// ErrInvalidAmount rejects zero and negative amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

// PayoutStore is the payout persistence the service needs.
type PayoutStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	InsertTx(ctx context.Context, tx pgx.Tx, p *models.PayoutRequest) error
	Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string) (workerID uuid.UUID, amountCents int64, err error)
}

// BalanceStore mutates account balances inside a transaction.
type BalanceStore interface {
	DeductBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amountCents int64) (int64, error)
	AddBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amountCents int64) (int64, error)
}

// EntryStore records the audit trail for every balance change.
type EntryStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, e *models.BalanceEntry) error
}

// PaidMarker flips the enrollment paid flag when a manual payment
// references a job.
type PaidMarker interface {
	MarkPaid(ctx context.Context, tx pgx.Tx, jobID, workerID uuid.UUID) error
}

type Service interface {
	RequestPayout(ctx context.Context, workerID uuid.UUID, amountCents int64) (*models.PayoutRequest, error)
	ResolvePayout(ctx context.Context, payoutID uuid.UUID, approve bool) error
	RecordManualPayment(ctx context.Context, workerID uuid.UUID, amountCents int64, jobID *uuid.UUID) error
}

type service struct {
	payouts     PayoutStore
	balances    BalanceStore
	entries     EntryStore
	enrollments PaidMarker
}

func NewService(payouts PayoutStore, balances BalanceStore, entries EntryStore, enrollments PaidMarker) Service {
	return &service{payouts: payouts, balances: balances, entries: entries, enrollments: enrollments}
}

var _ Service = (*service)(nil)

// RequestPayout deducts the requested amount from the worker's balance and
// opens a PENDING request, in one transaction. The balance is reduced by
// exactly the requested amount; the pending request's amount field is the
// reservation.
func (s *service) RequestPayout(ctx context.Context, workerID uuid.UUID, amountCents int64) (*models.PayoutRequest, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	tx, err := s.payouts.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	newBalance, err := s.balances.DeductBalance(ctx, tx, workerID, amountCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	p := &models.PayoutRequest{
		ID:          uuid.New(),
		WorkerID:    workerID,
		AmountCents: amountCents,
		Status:      models.PayoutStatusPending,
	}
	if err := s.payouts.InsertTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := s.entries.CreateTx(ctx, tx, &models.BalanceEntry{
		ID: uuid.New(), AccountID: workerID, PayoutID: &p.ID,
		EntryType: models.BalanceEntryPayoutReserve, AmountCents: amountCents, BalanceAfter: &newBalance,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolvePayout moves a PENDING request to APPROVED or REJECTED. Rejection
// credits the reserved amount back; approval changes no balance since the
// deduction already happened at request time. Terminal requests fail the
// precondition.
func (s *service) ResolvePayout(ctx context.Context, payoutID uuid.UUID, approve bool) error {
	status := models.PayoutStatusRejected
	if approve {
		status = models.PayoutStatusApproved
	}
	tx, err := s.payouts.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	workerID, amountCents, err := s.payouts.Resolve(ctx, tx, payoutID, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotPending
		}
		return err
	}
	if !approve {
		newBalance, err := s.balances.AddBalance(ctx, tx, workerID, amountCents)
		if err != nil {
			return err
		}
		if err := s.entries.CreateTx(ctx, tx, &models.BalanceEntry{
			ID: uuid.New(), AccountID: workerID, PayoutID: &payoutID,
			EntryType: models.BalanceEntryPayoutRefund, AmountCents: amountCents, BalanceAfter: &newBalance,
		}); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// RecordManualPayment credits the worker's balance. When jobID is set the
// matching enrollment is marked paid.
func (s *service) RecordManualPayment(ctx context.Context, workerID uuid.UUID, amountCents int64, jobID *uuid.UUID) error {
	if amountCents <= 0 {
		return ErrInvalidAmount
	}
	tx, err := s.payouts.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	newBalance, err := s.balances.AddBalance(ctx, tx, workerID, amountCents)
	if err != nil {
		return err
	}
	if err := s.entries.CreateTx(ctx, tx, &models.BalanceEntry{
		ID: uuid.New(), AccountID: workerID, JobID: jobID,
		EntryType: models.BalanceEntryManualPayment, AmountCents: amountCents, BalanceAfter: &newBalance,
	}); err != nil {
		return err
	}
	if jobID != nil {
		if err := s.enrollments.MarkPaid(ctx, tx, *jobID, workerID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
