package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/producthub/catalog-api/internal/core/domain"
)

var testUser = &domain.User{ID: "64b7f0c2e1a2b3c4d5e6f708", Email: "a@b.com", Role: domain.RoleUser}

func mustTokens(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	s, err := NewTokenService(testSecret, time.Hour, opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return s
}

func TestNewTokenService_RejectsMissingOrShortSecret(t *testing.T) {
	for _, secret := range []string{"", "short", strings.Repeat("x", MinSecretLength-1)} {
		if _, err := NewTokenService(secret, time.Hour); !errors.Is(err, ErrWeakSecret) {
			t.Fatalf("secret of %d bytes: expected ErrWeakSecret, got %v", len(secret), err)
		}
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	s, err := NewTokenService(testSecret, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TTL() != time.Hour {
		t.Fatalf("expected default ttl of 1h, got %v", s.TTL())
	}
}

func TestTokenService_IssueThenAuthorize_RoundTrip(t *testing.T) {
	s := mustTokens(t)

	token, exp, err := s.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if exp.IsZero() {
		t.Fatalf("expected expiry instant")
	}

	id, err := s.Authorize("Bearer " + token)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	want := domain.Identity{Subject: testUser.ID, Email: testUser.Email, Role: testUser.Role}
	if *id != want {
		t.Fatalf("got %+v, want %+v", *id, want)
	}
}

func TestTokenService_Authorize_RejectsBadHeaders(t *testing.T) {
	s := mustTokens(t)
	token, _, err := s.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := map[string]string{
		"missing":      "",
		"no scheme":    token,
		"wrong scheme": "Token " + token,
		"lower bearer": "bearer " + token,
		"empty token":  "Bearer ",
		"garbage":      "Bearer not-a-token",
		"tampered":     "Bearer " + escalate(t, token),
		"other secret": "Bearer " + signWith(t, strings.Repeat("k", 40), time.Now().Add(time.Hour)),
		"missing exp":  "Bearer " + signNoExp(t),
		"alg none":     "Bearer " + signNone(t),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Authorize(header)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestTokenService_ExpiredTokenAlwaysRejected(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := mustTokens(t, WithClock(func() time.Time { return issuedAt }))
	verifier := mustTokens(t)

	token, exp, err := issuer.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Before(time.Now()) {
		t.Fatalf("expected token to be expired already, exp=%v", exp)
	}

	for i := 0; i < 5; i++ {
		if _, err := verifier.Authorize("Bearer " + token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("attempt %d: expected ErrUnauthenticated, got %v", i, err)
		}
	}
}

func TestTokenService_ValidJustBeforeExpiry(t *testing.T) {
	now := time.Now()
	clock := now
	s := mustTokens(t, WithClock(func() time.Time { return clock }))

	token, _, err := s.Issue(testUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock = now.Add(59 * time.Minute)
	if _, err := s.Verify(token); err != nil {
		t.Fatalf("expected token to be valid before expiry: %v", err)
	}

	clock = now.Add(61 * time.Minute)
	if _, err := s.Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected token to be expired, got %v", err)
	}
}

func signWith(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:            testUser.Email,
		Role:             testUser.Role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: testUser.ID, ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

// escalate swaps the payload for one claiming the admin role while keeping
// the original signature.
func escalate(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	payload, err := json.Marshal(map[string]any{
		"sub":   testUser.ID,
		"email": testUser.Email,
		"role":  domain.RoleAdmin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString(payload)
	return strings.Join(parts, ".")
}

func signNoExp(t *testing.T) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   testUser.ID,
		"email": testUser.Email,
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func signNone(t *testing.T) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": testUser.ID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}
