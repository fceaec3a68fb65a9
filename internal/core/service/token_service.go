package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/producthub/catalog-api/internal/core/domain"
)

const (
	// MinSecretLength is the shortest HS256 signing secret accepted.
	MinSecretLength = 32

	defaultTokenTTL = time.Hour
	bearerPrefix    = "Bearer "
)

var ErrWeakSecret = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

// Claims is the payload of an access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens. The secret is fixed
// at construction and never mutated, so one instance serves all requests.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the validity window of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token bound to the user's id, email and role.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks the signature and expiry of a raw token.
func (s *TokenService) Verify(raw string) (*domain.Identity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tkn.Valid {
		return nil, errors.Join(domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

// Authorize verifies a raw "Bearer <token>" header value. Only identity is
// established here; no role policy is applied.
func (s *TokenService) Authorize(header string) (*domain.Identity, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, domain.ErrUnauthenticated
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.Verify(raw)
}
