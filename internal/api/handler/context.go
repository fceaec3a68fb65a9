package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/producthub/catalog-api/internal/core/domain"
)

const identityKey = "identity"

// SetIdentity stores the verified caller on the request context.
func SetIdentity(c echo.Context, id *domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller stored by the auth middleware. The second
// result is false on routes the middleware does not guard.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	id, ok := c.Get(identityKey).(*domain.Identity)
	return id, ok && id != nil
}

// requireIdentity is the fast-fail used by guarded handlers.
func requireIdentity(c echo.Context) (*domain.Identity, error) {
	id, ok := IdentityFrom(c)
	if !ok || id.Subject == "" {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}
