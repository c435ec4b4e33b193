package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vihcare/vihcare/internal/config"
	"github.com/vihcare/vihcare/internal/domain"
	"github.com/vihcare/vihcare/pkg/auth"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *fakeUserRepo) UpdateLoginAttempt(_ context.Context, id uuid.UUID, success bool) error {
	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		if success {
			u.FailedLoginCount = 0
			u.LockedUntil = nil
			now := time.Now()
			u.LastLoginAt = &now
			return nil
		}
		u.FailedLoginCount++
		if u.FailedLoginCount >= 5 {
			until := time.Now().Add(15 * time.Minute)
			u.LockedUntil = &until
		}
		return nil
	}
	return errors.New("record not found")
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			u.PasswordChangedAt = time.Now()
			return nil
		}
	}
	return errors.New("record not found")
}

func newTestAuthService(t *testing.T, repo UserRepository) *AuthService {
	t.Helper()
	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "vihcare-api",
	})
	return NewAuthService(repo, jwtManager, zap.NewNop())
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleMedico,
		IsActive:     true,
	}
	repo.users[email] = u
	return u
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "medico@example.org", "correct-horse-battery")
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "medico@example.org", "correct-horse-battery", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("token pair incomplete")
	}

	if _, err := svc.Login(ctx, "medico@example.org", "wrong", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.org", "whatever", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestLoginLockout(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "medico@example.org", "correct-horse-battery")
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Login(ctx, "medico@example.org", "wrong", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: err = %v", i, err)
		}
	}

	// Even the right password fails while locked.
	if _, err := svc.Login(ctx, "medico@example.org", "correct-horse-battery", "127.0.0.1"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("locked account: err = %v, want ErrAccountLocked", err)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "medico@example.org", "correct-horse-battery")
	u.IsActive = false
	svc := newTestAuthService(t, repo)

	if _, err := svc.Login(context.Background(), "medico@example.org", "correct-horse-battery", ""); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("err = %v, want ErrAccountInactive", err)
	}
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "medico@example.org", "correct-horse-battery")
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "medico@example.org", "correct-horse-battery", "")
	if err != nil {
		t.Fatal(err)
	}

	renewed, err := svc.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if renewed.AccessToken == "" {
		t.Error("no access token issued")
	}

	// An access token is not accepted as a refresh token.
	if _, err := svc.RefreshToken(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "medico@example.org", "correct-horse-battery")
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	var validErr *ValidationError
	if err := svc.ChangePassword(ctx, u.ID, "correct-horse-battery", "short"); !errors.As(err, &validErr) {
		t.Errorf("weak password: err = %v, want ValidationError", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "a-much-longer-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong current password: err = %v", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "correct-horse-battery", "a-much-longer-password"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "medico@example.org", "a-much-longer-password", ""); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestEnsureAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "Admin@Example.org", "bootstrap-admin-pass"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	u, ok := repo.users["admin@example.org"]
	if !ok {
		t.Fatal("admin not created under normalized email")
	}
	if u.Role != domain.RoleAdmin || !u.IsActive {
		t.Errorf("admin user = %+v", u)
	}

	// Idempotent on restart.
	if err := svc.EnsureAdmin(ctx, "admin@example.org", "bootstrap-admin-pass"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("users = %d, want 1", len(repo.users))
	}

	// No env configured: nothing to do, no error.
	if err := svc.EnsureAdmin(ctx, "", ""); err != nil {
		t.Errorf("empty bootstrap: %v", err)
	}
}
