// Package admins implements the dashboard account workflows: setup-key
// gated registration, login, and signed session tokens.
package admins

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"setlist/internal/mail"
	"setlist/internal/store"
)

var (
	// ErrInvalidSetupKey rejects registration and listing attempts that do
	// not present the configured setup key.
	ErrInvalidSetupKey = errors.New("invalid setup key")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken indicates a missing, malformed, or expired session token.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrPasswordTooShort rejects passwords under the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")

	dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")
)

const (
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

// Store describes the persistence operations required by the admin service.
type Store interface {
	CreateAdmin(ctx context.Context, username, passwordHash string, email, fullName *string) (store.AdminUser, error)
	ActiveAdminByUsername(ctx context.Context, username string) (store.AdminUser, error)
	ListAdmins(ctx context.Context) ([]store.AdminUser, error)
}

// RegisterParams carries a registration request.
type RegisterParams struct {
	SetupKey string
	Username string
	Password string
	Email    string
	FullName string
}

// Service exposes admin account workflows.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (store.AdminUser, error)
	Login(ctx context.Context, username, password string) (string, store.AdminUser, error)
	VerifyToken(token string) error
	List(ctx context.Context, setupKey string) ([]store.AdminUser, error)
}

type service struct {
	store    Store
	notifier mail.Notifier
	setupKey string
	secret   []byte
	clock    func() time.Time
	logger   zerolog.Logger
}

// New wires a Service. notifier may be a mail.NopNotifier when email is
// not configured.
func New(s Store, notifier mail.Notifier, setupKey string, jwtSecret []byte, logger zerolog.Logger) Service {
	return NewWithClock(s, notifier, setupKey, jwtSecret, logger, time.Now)
}

// NewWithClock is New with an injected clock, for tests.
func NewWithClock(s Store, notifier mail.Notifier, setupKey string, jwtSecret []byte, logger zerolog.Logger, clock func() time.Time) Service {
	return &service{
		store:    s,
		notifier: notifier,
		setupKey: setupKey,
		secret:   jwtSecret,
		clock:    clock,
		logger:   logger,
	}
}

// Register creates an admin account. The notification email is sent in the
// background; its failure never fails the registration.
func (s *service) Register(ctx context.Context, params RegisterParams) (store.AdminUser, error) {
	if subtle.ConstantTimeCompare([]byte(params.SetupKey), []byte(s.setupKey)) != 1 {
		return store.AdminUser{}, ErrInvalidSetupKey
	}

	var missing []string
	if params.Username == "" {
		missing = append(missing, "username")
	}
	if params.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return store.AdminUser{}, &store.ValidationError{Missing: missing}
	}

	if len(params.Password) < minPasswordLength {
		return store.AdminUser{}, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return store.AdminUser{}, fmt.Errorf("hash password: %w", err)
	}

	admin, err := s.store.CreateAdmin(ctx, params.Username, string(hash), optional(params.Email), optional(params.FullName))
	if err != nil {
		return store.AdminUser{}, err
	}

	go func() {
		notice := mail.AdminCreatedNotice{
			Username:  admin.Username,
			Email:     params.Email,
			FullName:  params.FullName,
			CreatedAt: admin.CreatedAt,
		}
		if err := s.notifier.AdminCreated(context.Background(), notice); err != nil {
			s.logger.Warn().Err(err).Str("username", admin.Username).Msg("admin-created notification failed")
		}
	}()

	return admin, nil
}

// Login validates credentials and mints a signed session token.
func (s *service) Login(ctx context.Context, username, password string) (string, store.AdminUser, error) {
	if username == "" || password == "" {
		return "", store.AdminUser{}, ErrInvalidCredentials
	}

	admin, err := s.store.ActiveAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrAdminNotFound) {
			// Equalize timing between unknown and known usernames.
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return "", store.AdminUser{}, ErrInvalidCredentials
		}
		return "", store.AdminUser{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", store.AdminUser{}, ErrInvalidCredentials
	}

	now := s.clock()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(admin.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", store.AdminUser{}, fmt.Errorf("sign session token: %w", err)
	}

	return token, admin, nil
}

// VerifyToken checks a session token's signature and expiry.
func (s *service) VerifyToken(token string) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock))
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}

// List returns every admin account. Gated by the setup key like the
// registration flow.
func (s *service) List(ctx context.Context, setupKey string) ([]store.AdminUser, error) {
	if subtle.ConstantTimeCompare([]byte(setupKey), []byte(s.setupKey)) != 1 {
		return nil, ErrInvalidSetupKey
	}
	return s.store.ListAdmins(ctx)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
