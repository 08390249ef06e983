package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/madhav-mp2006/crewx-official/internal/models"
	"github.com/madhav-mp2006/crewx-official/internal/services"
)

type stubAuthService struct {
	registered int
}

func (s *stubAuthService) Register(_ context.Context, email, _, displayName string) (*models.Account, string, error) {
	s.registered++
	return &models.Account{ID: uuid.New(), Email: email, DisplayName: displayName, Role: models.RoleWorker}, "token", nil
}

func (s *stubAuthService) Login(context.Context, string, string) (*models.Account, string, error) {
	return nil, "", ErrInvalidCredentials
}

func (s *stubAuthService) AdminLogin(context.Context, string, string) (string, error) {
	return "", ErrInvalidCredentials
}

func (s *stubAuthService) ExternalSignIn(context.Context, string, string) (*models.Account, string, error) {
	return nil, "", nil
}

func (s *stubAuthService) ValidateToken(context.Context, string) (uuid.UUID, string, error) {
	return uuid.Nil, "", ErrSessionRevoked
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

func registerValidator(t *testing.T) *services.Validator {
	t.Helper()
	v, err := services.NewValidator("../../schemas")
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func TestRegisterHandler(t *testing.T) {
	svc := &stubAuthService{}
	h := NewHandler(svc, registerValidator(t), nil)

	body := `{"email": "dana@example.com", "password": "hunter2hunter2", "display_name": "Dana"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body %s", rec.Code, rec.Body)
	}
	if svc.registered != 1 {
		t.Errorf("register calls: got %d, want 1", svc.registered)
	}
}

// Bodies violating the registration schema never reach the service.
func TestRegisterHandler_SchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short password", `{"email": "dana@example.com", "password": "short", "display_name": "Dana"}`},
		{"bad email", `{"email": "not-an-email", "password": "hunter2hunter2", "display_name": "Dana"}`},
		{"missing display name", `{"email": "dana@example.com", "password": "hunter2hunter2"}`},
		{"extra field", `{"email": "dana@example.com", "password": "hunter2hunter2", "display_name": "Dana", "role": "ADMIN"}`},
		{"not json", `email=dana`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAuthService{}
			h := NewHandler(svc, registerValidator(t), nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
			if svc.registered != 0 {
				t.Error("invalid body must not reach the service")
			}
		})
	}
}
