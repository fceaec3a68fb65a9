package ports

import (
	"context"

	"github.com/producthub/catalog-api/internal/core/domain"
)

// AuthRepository defines the interface for account persistence.
type AuthRepository interface {
	// Create stores a new account and returns it with its assigned ID.
	// It returns domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
