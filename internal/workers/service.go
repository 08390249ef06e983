package workers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

// ErrImageRejected is returned when the classifier does not confirm the
// uploaded payment-QR image.
var ErrImageRejected = errors.New("image rejected by classifier")

// AccountStore is the account access the workers service needs.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRole(ctx context.Context, role string) ([]*models.Account, error)
}

// ImageScreener gates payment-QR uploads.
type ImageScreener interface {
	Approve(ctx context.Context, imageBase64 string) bool
}

// ProfileUpdate carries the self-service profile edits. Nil fields are
// left untouched; pointers distinguish "unset" from "clear".
type ProfileUpdate struct {
	DisplayName     *string
	Age             *int
	ExperienceYears *int
}

type Service interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, upd ProfileUpdate) (*models.Account, error)
	SetPaymentQR(ctx context.Context, accountID uuid.UUID, imageBase64 string) error
	ListWorkers(ctx context.Context) ([]*models.Account, error)
	DeleteWorker(ctx context.Context, accountID uuid.UUID) error
}

type service struct {
	accounts AccountStore
	screener ImageScreener
}

func NewService(accounts AccountStore, screener ImageScreener) Service {
	return &service{accounts: accounts, screener: screener}
}

var _ Service = (*service)(nil)

func (s *service) GetProfile(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	return s.accounts.GetByID(ctx, accountID)
}

func (s *service) UpdateProfile(ctx context.Context, accountID uuid.UUID, upd ProfileUpdate) (*models.Account, error) {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if upd.DisplayName != nil {
		acc.DisplayName = *upd.DisplayName
	}
	if upd.Age != nil {
		acc.Age = upd.Age
	}
	if upd.ExperienceYears != nil {
		acc.ExperienceYears = upd.ExperienceYears
	}
	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// SetPaymentQR stores the image only after the external classifier confirms
// it. A rejection or classifier failure leaves the account unchanged.
func (s *service) SetPaymentQR(ctx context.Context, accountID uuid.UUID, imageBase64 string) error {
	if !s.screener.Approve(ctx, imageBase64) {
		return ErrImageRejected
	}
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	acc.PaymentQR = &imageBase64
	return s.accounts.Update(ctx, acc)
}

func (s *service) ListWorkers(ctx context.Context) ([]*models.Account, error) {
	return s.accounts.ListByRole(ctx, models.RoleWorker)
}

// DeleteWorker removes the account; enrollments, payout requests,
// notifications, balance entries, and sessions cascade with it.
func (s *service) DeleteWorker(ctx context.Context, accountID uuid.UUID) error {
	return s.accounts.Delete(ctx, accountID)
}
