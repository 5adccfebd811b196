package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	// OwnerKeyHeader carries the caller's opaque wallet-style identity
	OwnerKeyHeader = "X-Owner-Key"

	ownerKeyContextKey = "owner_key"
)

// Authenticator verifies an owner key. The default deployment trusts the
// header as-is; a verifying implementation (signature check, token exchange)
// slots in here without touching handlers.
type Authenticator interface {
	Authenticate(c echo.Context, ownerKey string) error
}

// PassthroughAuthenticator accepts any non-empty owner key
type PassthroughAuthenticator struct{}

// Authenticate implements Authenticator
func (PassthroughAuthenticator) Authenticate(echo.Context, string) error {
	return nil
}

// OwnerKeyMiddleware extracts and authenticates the owner key for the
// authenticated API group. Requests without a key are rejected before any
// handler runs.
func OwnerKeyMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ownerKey := c.Request().Header.Get(OwnerKeyHeader)
			if ownerKey == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing owner key")
			}

			if err := auth.Authenticate(c, ownerKey); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid owner key")
			}

			c.Set(ownerKeyContextKey, ownerKey)
			return next(c)
		}
	}
}

// GetOwnerKey returns the authenticated owner key for the current request
func GetOwnerKey(c echo.Context) string {
	if key, ok := c.Get(ownerKeyContextKey).(string); ok {
		return key
	}
	return ""
}
