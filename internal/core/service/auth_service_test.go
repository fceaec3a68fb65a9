package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/producthub/catalog-api/internal/core/domain"
	"github.com/producthub/catalog-api/internal/core/ports"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

type stubAuthRepo struct {
	users   map[string]*domain.User
	findErr error
	nextID  int
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func newTestAuth(t *testing.T) (*AuthService, *stubAuthRepo, *TokenService) {
	t.Helper()
	tokens, err := NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	repo := newStubAuthRepo()
	svc, err := NewAuthService(repo, tokens, zerolog.Nop())
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	return svc, repo, tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	user, err := svc.Register(context.Background(), ports.RegisterInput{Email: "A@B.com ", Password: "password1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "password1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(user.PasswordHash))
	if err != nil || cost != PasswordCost {
		t.Fatalf("expected bcrypt cost %d, got %d (%v)", PasswordCost, cost, err)
	}
}

func TestAuthService_Register_PasswordBoundary(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "seven@example.com", Password: "1234567"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for 7 chars, got %v", err)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Fatalf("expected password field error, got %+v", ve.Fields)
	}

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "eight@example.com", Password: "12345678"}); err != nil {
		t.Fatalf("expected 8 chars to be accepted, got %v", err)
	}
}

func TestAuthService_Register_PasswordByteLimit(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	// 40 two-byte characters pass the character count but exceed bcrypt's input.
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "wide@b.com", Password: strings.Repeat("é", 40)})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Fatalf("expected password field error, got %v", ve.Fields)
	}

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "fits@b.com", Password: strings.Repeat("é", 36)}); err != nil {
		t.Fatalf("72-byte password should be accepted: %v", err)
	}
}

func TestAuthService_Register_InvalidEmail(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "not-an-email", Password: "password1"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Fields["email"] == "" {
		t.Fatalf("expected email ValidationError, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "bob@example.com", Password: "password1"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@example.com", Password: "password2"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_RegisterThenLogin_RoundTrip(t *testing.T) {
	svc, _, tokens := newTestAuth(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, ports.RegisterInput{Email: "carol@example.com", Password: "s3cretpass"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(ctx, ports.LoginInput{Email: "carol@example.com", Password: "s3cretpass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.ID != created.ID {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if d := time.Until(res.ExpiresAt); d <= 59*time.Minute || d > time.Hour {
		t.Fatalf("expected ~1h validity, got %v", d)
	}

	id, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if id.Email != "carol@example.com" || id.Subject != created.ID || id.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "dave@example.com", Password: "goodpass1"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPass := svc.Login(ctx, ports.LoginInput{Email: "dave@example.com", Password: "badpass12"})
	_, unknown := svc.Login(ctx, ports.LoginInput{Email: "x@y.com", Password: "wrong"})

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("login failures differ: %q vs %q", wrongPass, unknown)
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc, _, _ := newTestAuth(t)

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "bad", Password: ""})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["email"] == "" || ve.Fields["password"] == "" {
		t.Fatalf("expected email and password messages, got %+v", ve.Fields)
	}
}

func TestAuthService_Login_StorageFailurePropagates(t *testing.T) {
	svc, repo, _ := newTestAuth(t)
	repo.findErr = errors.New("connection refused")

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "e@example.com", Password: "whatever1"})
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, ports.RegisterInput{Email: "erin@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	got, err := svc.Profile(ctx, domain.Identity{Subject: created.ID})
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if got.Email != "erin@example.com" {
		t.Fatalf("unexpected profile: %+v", got)
	}

	if _, err := svc.Profile(ctx, domain.Identity{Subject: "gone"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for missing account, got %v", err)
	}
}
