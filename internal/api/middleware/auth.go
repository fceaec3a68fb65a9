package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/producthub/catalog-api/internal/api/handler"
	"github.com/producthub/catalog-api/internal/api/metrics"
	"github.com/producthub/catalog-api/internal/core/ports"
)

// Auth verifies the bearer token and injects the caller identity into the
// context. Rejected requests never reach next; the returned error renders
// as 401 through the API error handler.
func Auth(authorizer ports.Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			id, err := authorizer.Authorize(header)
			if err != nil {
				reason := "invalid_token"
				if header == "" {
					reason = "missing_header"
				}
				metrics.GuardRejectionsTotal.WithLabelValues(reason).Inc()
				return err
			}

			handler.SetIdentity(c, id)
			return next(c)
		}
	}
}
