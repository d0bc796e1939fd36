package middleware

// identity.go defines helpers shared across middleware files and handlers
// for reading the identity JWTAuth stored in the Echo context.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/utils"
)

// ClaimsFrom returns the verified claims of the current request.
func ClaimsFrom(c echo.Context) (*utils.Claims, bool) {
	cl, ok := c.Get(ctxClaims).(*utils.Claims)
	return cl, ok && cl != nil
}

// userID extracts the authenticated user id from context.  It returns
// "anon" when no user is authenticated.
func userID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
