package workers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type mockAccounts struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
}

func newMockAccounts(as ...*models.Account) *mockAccounts {
	m := &mockAccounts{accounts: make(map[uuid.UUID]*models.Account)}
	for _, a := range as {
		cp := *a
		m.accounts[a.ID] = &cp
	}
	return m
}

func (m *mockAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccounts) Update(_ context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *mockAccounts) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *mockAccounts) ListByRole(_ context.Context, role string) ([]*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Account
	for _, a := range m.accounts {
		if a.Role == role {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubScreener struct{ approve bool }

func (s stubScreener) Approve(context.Context, string) bool { return s.approve }

func worker() *models.Account {
	return &models.Account{
		ID:          uuid.New(),
		Email:       "dana@example.com",
		DisplayName: "Dana",
		Role:        models.RoleWorker,
	}
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	acc := worker()
	store := newMockAccounts(acc)
	svc := NewService(store, stubScreener{approve: true})

	ctx := context.Background()
	got, err := svc.UpdateProfile(ctx, acc.ID, ProfileUpdate{
		DisplayName: strPtr("Dana R."),
		Age:         intPtr(29),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.DisplayName != "Dana R." {
		t.Errorf("display name: got %q, want %q", got.DisplayName, "Dana R.")
	}
	if got.Age == nil || *got.Age != 29 {
		t.Errorf("age: got %v, want 29", got.Age)
	}
	// Fields never set stay unset.
	if got.ExperienceYears != nil {
		t.Errorf("experience years should remain unset, got %v", *got.ExperienceYears)
	}

	// A later partial update leaves the other fields alone.
	got, err = svc.UpdateProfile(ctx, acc.ID, ProfileUpdate{ExperienceYears: intPtr(4)})
	if err != nil {
		t.Fatalf("second UpdateProfile: %v", err)
	}
	if got.DisplayName != "Dana R." || got.Age == nil || *got.Age != 29 {
		t.Error("partial update clobbered unrelated fields")
	}
	if got.ExperienceYears == nil || *got.ExperienceYears != 4 {
		t.Errorf("experience years: got %v, want 4", got.ExperienceYears)
	}
}

func TestUpdateProfile_UnknownAccount(t *testing.T) {
	svc := NewService(newMockAccounts(), stubScreener{approve: true})
	if _, err := svc.UpdateProfile(context.Background(), uuid.New(), ProfileUpdate{}); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("got %v, want pgx.ErrNoRows", err)
	}
}

func TestSetPaymentQR(t *testing.T) {
	acc := worker()
	store := newMockAccounts(acc)
	svc := NewService(store, stubScreener{approve: true})

	ctx := context.Background()
	if err := svc.SetPaymentQR(ctx, acc.ID, "aW1hZ2U="); err != nil {
		t.Fatalf("SetPaymentQR: %v", err)
	}
	got, _ := store.GetByID(ctx, acc.ID)
	if got.PaymentQR == nil || *got.PaymentQR != "aW1hZ2U=" {
		t.Errorf("payment QR not stored: got %v", got.PaymentQR)
	}
}

func TestSetPaymentQR_Rejected(t *testing.T) {
	acc := worker()
	store := newMockAccounts(acc)
	svc := NewService(store, stubScreener{approve: false})

	ctx := context.Background()
	if err := svc.SetPaymentQR(ctx, acc.ID, "bm90LWEtcXI="); !errors.Is(err, ErrImageRejected) {
		t.Fatalf("got %v, want ErrImageRejected", err)
	}
	got, _ := store.GetByID(ctx, acc.ID)
	if got.PaymentQR != nil {
		t.Error("rejected image must not be stored")
	}
}

func TestListWorkers_ExcludesAdmins(t *testing.T) {
	w := worker()
	admin := &models.Account{ID: uuid.New(), Email: "ops@crewx.dev", Role: models.RoleAdmin}
	svc := NewService(newMockAccounts(w, admin), stubScreener{})

	got, err := svc.ListWorkers(context.Background())
	if err != nil {
		t.Fatalf("ListWorkers: %v", err)
	}
	if len(got) != 1 || got[0].ID != w.ID {
		t.Errorf("ListWorkers returned %d accounts, want only the worker", len(got))
	}
}

func TestDeleteWorker(t *testing.T) {
	acc := worker()
	store := newMockAccounts(acc)
	svc := NewService(store, stubScreener{})

	ctx := context.Background()
	if err := svc.DeleteWorker(ctx, acc.ID); err != nil {
		t.Fatalf("DeleteWorker: %v", err)
	}
	if _, err := store.GetByID(ctx, acc.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Error("account should be gone after delete")
	}
}
