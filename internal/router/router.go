package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/utils"
)

// Guards are the per-route middlewares shared by every route group.
// RateLimit and Cache may be nil.
type Guards struct {
	Tokens    middleware.Verifier
	RateLimit echo.MiddlewareFunc
	Cache     *middleware.ResponseCache
}

// access requires a valid access token whose claims satisfy p, and then
// applies the rate limiter so the limiter can key on the authenticated user.
func (g Guards) access(p middleware.Policy) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(g.Tokens, utils.KindAccess),
		middleware.Authorize(p),
	}
	return append(mws, g.limit()...)
}

func (g Guards) authenticated() []echo.MiddlewareFunc {
	return g.access(middleware.AnyAuthenticated)
}

func (g Guards) admin() []echo.MiddlewareFunc {
	return g.access(middleware.RequiresRole(model.RoleAdmin))
}

func (g Guards) limit() []echo.MiddlewareFunc {
	if g.RateLimit == nil {
		return nil
	}
	return []echo.MiddlewareFunc{g.RateLimit}
}

// RegisterRoutes registers routes outside the API prefix.  At the moment it
// only exposes the health check used by load balancers.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	e.GET("/healthz", health)
}

// RegisterAPI registers every API group under prefix.
func RegisterAPI(e *echo.Echo, prefix string, g Guards, u *handler.UserHandler, s *handler.SessionHandler, r *handler.RoleHandler) {
	api := e.Group(prefix)
	RegisterUsers(api, u, g)
	RegisterSessions(api, s, g)
	RegisterRoles(api, r, g)
}
