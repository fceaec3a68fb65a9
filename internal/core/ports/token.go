package ports

import (
	"time"

	"github.com/producthub/catalog-api/internal/core/domain"
)

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// Authorizer verifies the raw Authorization header of a request.
// Any failure is reported as domain.ErrUnauthenticated.
type Authorizer interface {
	Authorize(header string) (*domain.Identity, error)
}
