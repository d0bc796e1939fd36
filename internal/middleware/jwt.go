package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"strings" // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/auth-service/internal/utils"
)

// Verifier checks a raw token of the given kind.  *service.TokenService
// implements it.
type Verifier interface {
	Verify(ctx context.Context, raw string, kind utils.TokenKind) (*utils.Claims, error)
}

// Context keys set by JWTAuth.
const (
	ctxClaims = "claims"
	ctxUserID = "user_id"
)

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "" when the header is missing or uses another scheme.
func BearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// JWTAuth returns an Echo middleware that validates a Bearer token of the
// given kind and injects its claims into the request context.  Handlers
// read them with ClaimsFrom.  A missing token fails with an Unauthorized
// error, a bad or revoked one with an InvalidToken error; the HTTP error
// handler turns both into 401.
func JWTAuth(v Verifier, kind utils.TokenKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := v.Verify(c.Request().Context(), BearerToken(c), kind)
			if err != nil {
				return err
			}
			// Store the claims and the user id so handlers and downstream
			// middleware (rate limiting, logging) can use them.
			c.Set(ctxClaims, claims)
			c.Set(ctxUserID, claims.UserID)
			return next(c)
		}
	}
}
