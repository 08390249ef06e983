package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/madhav-mp2006/crewx-official/internal/models"
)

var (
	// ErrDuplicateEmail is returned when registering with an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionRevoked is returned when the token parses but its session row is gone.
	ErrSessionRevoked = errors.New("session revoked or expired")
)

const sessionTTL = 24 * time.Hour

// AccountStore is the account access the auth service needs.
type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
}

// AdminStore resolves credentials on the dedicated admin login path.
type AdminStore interface {
	GetCredential(ctx context.Context, email string) (*models.AdminCredential, error)
}

// SessionStore owns the session lifecycle: issue inserts, validate loads,
// logout deletes.
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*models.Account, string, error)
	Login(ctx context.Context, email, password string) (*models.Account, string, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
	// ExternalSignIn upserts an account for an identity issued by the
	// external provider (email + display name, no local password).
	ExternalSignIn(ctx context.Context, email, displayName string) (*models.Account, string, error)
	ValidateToken(ctx context.Context, token string) (accountID uuid.UUID, role string, err error)
	Logout(ctx context.Context, token string) error
}

type service struct {
	accounts AccountStore
	admins   AdminStore
	sessions SessionStore
	secret   []byte
}

func NewService(accounts AccountStore, admins AdminStore, sessions SessionStore) *service {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "crewx-dev-secret"
	}
	return &service{accounts: accounts, admins: admins, sessions: sessions, secret: []byte(secret)}
}

var _ Service = (*service)(nil)

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func (s *service) Register(ctx context.Context, email, password, displayName string) (*models.Account, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	hashStr := string(hash)
	acc := &models.Account{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		DisplayName:  displayName,
		Role:         models.RoleWorker,
		PasswordHash: &hashStr,
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", err
	}
	token, err := s.openSession(ctx, acc.ID, acc.Role)
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	acc, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if acc.PasswordHash == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*acc.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.openSession(ctx, acc.ID, acc.Role)
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

func (s *service) AdminLogin(ctx context.Context, email, password string) (string, error) {
	cred, err := s.admins.GetCredential(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.openSession(ctx, cred.AccountID, models.RoleAdmin)
}

func (s *service) ExternalSignIn(ctx context.Context, email, displayName string) (*models.Account, string, error) {
	acc, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		acc = &models.Account{
			ID:          uuid.New(),
			Email:       strings.ToLower(email),
			DisplayName: displayName,
			Role:        models.RoleWorker,
		}
		if err := s.accounts.Create(ctx, acc); err != nil {
			return nil, "", err
		}
	} else if err != nil {
		return nil, "", err
	}
	token, err := s.openSession(ctx, acc.ID, acc.Role)
	if err != nil {
		return nil, "", err
	}
	return acc, token, nil
}

// openSession inserts the session row and signs a token whose jti is the
// session id.
func (s *service) openSession(ctx context.Context, accountID uuid.UUID, role string) (string, error) {
	sess := &models.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Role:      role,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			ID:        sess.ID.String(),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

func (s *service) ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	c, err := s.parse(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	sessionID, err := uuid.Parse(c.ID)
	if err != nil {
		return uuid.Nil, "", err
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, "", ErrSessionRevoked
		}
		return uuid.Nil, "", err
	}
	if time.Now().After(sess.ExpiresAt) {
		return uuid.Nil, "", ErrSessionRevoked
	}
	return sess.AccountID, sess.Role, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	sessionID, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *service) parse(token string) (*claims, error) {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
