package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

type mockAccounts struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.Account
	byEmail map[string]*models.Account
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{
		byID:    make(map[uuid.UUID]*models.Account),
		byEmail: make(map[string]*models.Account),
	}
}

func (m *mockAccounts) Create(_ context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(a.Email)
	if _, exists := m.byEmail[email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}
	}
	cp := *a
	m.byID[a.ID] = &cp
	m.byEmail[email] = &cp
	return nil
}

func (m *mockAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (m *mockAccounts) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

type mockAdmins struct {
	email     string
	accountID uuid.UUID
	hash      string
}

func (m *mockAdmins) GetCredential(_ context.Context, email string) (*models.AdminCredential, error) {
	if !strings.EqualFold(email, m.email) {
		return nil, pgx.ErrNoRows
	}
	return &models.AdminCredential{AccountID: m.accountID, Email: m.email, PasswordHash: m.hash}, nil
}

type mockSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.Session
}

func newMockSessions() *mockSessions {
	return &mockSessions{sessions: make(map[uuid.UUID]*models.Session)}
}

func (m *mockSessions) Create(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *mockSessions) GetByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (m *mockSessions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *mockSessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func newTestService() (*service, *mockAccounts, *mockAdmins, *mockSessions) {
	accounts := newMockAccounts()
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.MinCost)
	admins := &mockAdmins{email: "ops@crewx.dev", accountID: uuid.New(), hash: string(hash)}
	sessions := newMockSessions()
	return NewService(accounts, admins, sessions), accounts, admins, sessions
}

func TestRegisterAndValidate(t *testing.T) {
	svc, _, _, sessions := newTestService()
	ctx := context.Background()

	acc, token, err := svc.Register(ctx, "Dana@Example.COM", "hunter2hunter2", "Dana")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if acc.Email != "dana@example.com" {
		t.Errorf("email should be lowercased: got %q", acc.Email)
	}
	if acc.Role != models.RoleWorker {
		t.Errorf("role: got %s, want WORKER", acc.Role)
	}
	if acc.PasswordHash == nil || *acc.PasswordHash == "hunter2hunter2" {
		t.Error("password must be stored hashed")
	}
	if sessions.count() != 1 {
		t.Fatalf("sessions: got %d, want 1", sessions.count())
	}

	accountID, role, err := svc.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if accountID != acc.ID {
		t.Errorf("account id: got %s, want %s", accountID, acc.ID)
	}
	if role != models.RoleWorker {
		t.Errorf("role: got %s, want WORKER", role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "dana@example.com", "hunter2hunter2", "Dana"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "DANA@example.com", "other-password", "Imposter"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("second register: got %v, want ErrDuplicateEmail", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	acc, _, err := svc.Register(ctx, "dana@example.com", "hunter2hunter2", "Dana")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, token, err := svc.Login(ctx, "dana@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != acc.ID {
		t.Errorf("account id: got %s, want %s", got.ID, acc.ID)
	}
	if token == "" {
		t.Error("login should issue a token")
	}

	if _, _, err := svc.Login(ctx, "dana@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _, _, sessions := newTestService()
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "dana@example.com", "hunter2hunter2", "Dana")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sessions.count() != 0 {
		t.Errorf("sessions after logout: got %d, want 0", sessions.count())
	}

	// The token still parses, but its session row is gone.
	if _, _, err := svc.ValidateToken(ctx, token); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("validate after logout: got %v, want ErrSessionRevoked", err)
	}
}

func TestAdminLogin(t *testing.T) {
	svc, _, admins, _ := newTestService()
	ctx := context.Background()

	token, err := svc.AdminLogin(ctx, "ops@crewx.dev", "admin-secret")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	accountID, role, err := svc.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if accountID != admins.accountID {
		t.Errorf("account id: got %s, want %s", accountID, admins.accountID)
	}
	if role != models.RoleAdmin {
		t.Errorf("role: got %s, want ADMIN", role)
	}

	if _, err := svc.AdminLogin(ctx, "ops@crewx.dev", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.AdminLogin(ctx, "nobody@crewx.dev", "admin-secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown admin: got %v, want ErrInvalidCredentials", err)
	}
}

func TestExternalSignIn(t *testing.T) {
	svc, accounts, _, _ := newTestService()
	ctx := context.Background()

	acc, token, err := svc.ExternalSignIn(ctx, "Dana@Example.com", "Dana")
	if err != nil {
		t.Fatalf("ExternalSignIn: %v", err)
	}
	if token == "" {
		t.Error("external sign-in should issue a token")
	}
	if acc.PasswordHash != nil {
		t.Error("externally provisioned accounts carry no local password")
	}

	// Signing in again resolves the same account rather than creating another.
	again, _, err := svc.ExternalSignIn(ctx, "dana@example.com", "Dana")
	if err != nil {
		t.Fatalf("second ExternalSignIn: %v", err)
	}
	if again.ID != acc.ID {
		t.Errorf("account id changed across sign-ins: %s vs %s", again.ID, acc.ID)
	}
	if len(accounts.byID) != 1 {
		t.Errorf("accounts: got %d, want 1", len(accounts.byID))
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, _, err := svc.ValidateToken(context.Background(), "not-a-jwt"); err == nil {
		t.Fatal("garbage token should not validate")
	}
}
