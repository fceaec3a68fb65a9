package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/producthub/catalog-api/internal/core/domain"
	"github.com/producthub/catalog-api/internal/core/ports"
	"github.com/producthub/catalog-api/internal/core/validation"
)

const (
	// PasswordCost is the bcrypt work factor for stored credentials.
	PasswordCost = 10
	// MaxPasswordBytes is bcrypt's input limit. The validator counts
	// characters, so multibyte passwords are checked here as well.
	MaxPasswordBytes = 72
)

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo   ports.AuthRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger

	// dummyHash is compared against when the email is unknown so that both
	// login failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenIssuer, log zerolog.Logger) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{repo: repo, tokens: tokens, log: log, dummyHash: dummy}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if len(in.Password) > MaxPasswordBytes {
		return nil, domain.NewValidationError("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.log.Error().Err(err).Msg("failed to create account")
		}
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("account registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")
	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// Profile loads the account behind a verified identity. An identity whose
// account no longer exists is treated as unauthenticated.
func (s *AuthService) Profile(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
