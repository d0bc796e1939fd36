package middleware // middleware provides shared request processing for handlers

import (
	"fmt"

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/utils"
)

// Policy decides whether the holder of claims may proceed.
type Policy interface {
	Authorize(claims *utils.Claims) error
}

type anyAuthenticated struct{}

func (anyAuthenticated) Authorize(claims *utils.Claims) error {
	if claims == nil {
		return fmt.Errorf("%w: authentication required", service.ErrUnauthorized)
	}
	return nil
}

// AnyAuthenticated admits every verified token.
var AnyAuthenticated Policy = anyAuthenticated{}

// RequiresRole admits tokens carrying the named role.  The admin role
// satisfies every RequiresRole policy.
type RequiresRole string

func (r RequiresRole) Authorize(claims *utils.Claims) error {
	return RequireRole(claims, string(r))
}

// RequireRole is the decision function behind RequiresRole.  No claims
// means Unauthorized; claims without the role mean Forbidden.
func RequireRole(claims *utils.Claims, role string) error {
	if claims == nil {
		return fmt.Errorf("%w: authentication required", service.ErrUnauthorized)
	}
	for _, held := range claims.Roles {
		if held == role || held == model.RoleAdmin {
			return nil
		}
	}
	return fmt.Errorf("%w: %s role required", service.ErrForbidden, role)
}

// Authorize returns a middleware enforcing p on the claims stored by
// JWTAuth, which must run first.
func Authorize(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := ClaimsFrom(c)
			if err := p.Authorize(claims); err != nil {
				return err
			}
			return next(c)
		}
	}
}
