package admins

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"setlist/internal/mail"
	"setlist/internal/store"
)

type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	admins map[string]store.AdminUser
}

func newFakeStore() *fakeStore {
	return &fakeStore{admins: make(map[string]store.AdminUser)}
}

func (f *fakeStore) CreateAdmin(_ context.Context, username, passwordHash string, email, fullName *string) (store.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.admins[username]; ok {
		return store.AdminUser{}, store.ErrAdminExists
	}

	f.nextID++
	admin := store.AdminUser{
		ID:           f.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		FullName:     fullName,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	f.admins[username] = admin
	return admin, nil
}

func (f *fakeStore) ActiveAdminByUsername(_ context.Context, username string) (store.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	admin, ok := f.admins[username]
	if !ok || !admin.IsActive {
		return store.AdminUser{}, store.ErrAdminNotFound
	}
	return admin, nil
}

func (f *fakeStore) ListAdmins(context.Context) ([]store.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var admins []store.AdminUser
	for _, admin := range f.admins {
		admins = append(admins, admin)
	}
	return admins, nil
}

type recordingNotifier struct {
	notices chan mail.AdminCreatedNotice
}

func (n *recordingNotifier) AdminCreated(_ context.Context, notice mail.AdminCreatedNotice) error {
	n.notices <- notice
	return nil
}

const (
	testSetupKey = "test-setup-key"
	testSecret   = "test-jwt-secret"
)

func newTestService(fs *fakeStore, notifier mail.Notifier, clock func() time.Time) Service {
	if notifier == nil {
		notifier = mail.NopNotifier{}
	}
	if clock == nil {
		clock = time.Now
	}
	return NewWithClock(fs, notifier, testSetupKey, []byte(testSecret), zerolog.Nop(), clock)
}

func TestRegisterRejectsBadSetupKey(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)

	_, err := svc.Register(context.Background(), RegisterParams{
		SetupKey: "wrong",
		Username: "admin",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidSetupKey) {
		t.Fatalf("error = %v, want ErrInvalidSetupKey", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)

	_, err := svc.Register(context.Background(), RegisterParams{
		SetupKey: testSetupKey,
		Username: "admin",
		Password: "short",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("error = %v, want ErrPasswordTooShort", err)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)

	_, err := svc.Register(context.Background(), RegisterParams{SetupKey: testSetupKey})

	var validationErr *store.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestRegisterHashesPasswordAndNotifies(t *testing.T) {
	fs := newFakeStore()
	notifier := &recordingNotifier{notices: make(chan mail.AdminCreatedNotice, 1)}
	svc := newTestService(fs, notifier, nil)

	admin, err := svc.Register(context.Background(), RegisterParams{
		SetupKey: testSetupKey,
		Username: "admin",
		Password: "password123",
		Email:    "admin@example.com",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored := fs.admins["admin"]
	if stored.PasswordHash == "password123" || stored.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	select {
	case notice := <-notifier.notices:
		if notice.Username != admin.Username {
			t.Errorf("notice username = %q, want %q", notice.Username, admin.Username)
		}
	case <-time.After(2 * time.Second):
		t.Error("expected admin-created notification")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)
	params := RegisterParams{
		SetupKey: testSetupKey,
		Username: "admin",
		Password: "password123",
	}

	if _, err := svc.Register(context.Background(), params); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), params); !errors.Is(err, store.ErrAdminExists) {
		t.Fatalf("error = %v, want ErrAdminExists", err)
	}
}

func TestLoginAndVerifyToken(t *testing.T) {
	fs := newFakeStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(fs, nil, func() time.Time { return now })

	if _, err := svc.Register(context.Background(), RegisterParams{
		SetupKey: testSetupKey,
		Username: "admin",
		Password: "password123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, admin, err := svc.Login(context.Background(), "admin", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || admin.Username != "admin" {
		t.Fatalf("token = %q, admin = %+v", token, admin)
	}

	if err := svc.VerifyToken(token); err != nil {
		t.Errorf("VerifyToken: %v", err)
	}

	// The token expires after 24 hours.
	now = now.Add(25 * time.Hour)
	if err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}

func TestLoginFailures(t *testing.T) {
	fs := newFakeStore()
	svc := newTestService(fs, nil, nil)

	if _, err := svc.Register(context.Background(), RegisterParams{
		SetupKey: testSetupKey,
		Username: "admin",
		Password: "password123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "admin", password: "nope"},
		{name: "unknown user", username: "ghost", password: "password123"},
		{name: "empty credentials", username: "", password: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Login(context.Background(), tc.username, tc.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyToken(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestListRequiresSetupKey(t *testing.T) {
	svc := newTestService(newFakeStore(), nil, nil)

	if _, err := svc.List(context.Background(), "wrong"); !errors.Is(err, ErrInvalidSetupKey) {
		t.Fatalf("error = %v, want ErrInvalidSetupKey", err)
	}
	if _, err := svc.List(context.Background(), testSetupKey); err != nil {
		t.Fatalf("List: %v", err)
	}
}
