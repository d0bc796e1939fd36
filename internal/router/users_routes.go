package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/handler"
)

// RegisterUsers registers account endpoints.  Registration is open;
// reading and changing the own account needs an access token; managing
// another user's roles is reserved for admins.
func RegisterUsers(api *echo.Group, h *handler.UserHandler, g Guards) {
	api.POST("/users", h.Register, g.limit()...)
	api.GET("/users", h.Me, g.authenticated()...)
	api.PUT("/users", h.ChangePassword, g.authenticated()...)

	api.POST("/users/:id/subscribe", h.Subscribe, g.admin()...)
	api.GET("/users/:id/subscribe", h.UserRoles, g.admin()...)
	api.DELETE("/users/:id/subscribe", h.Unsubscribe, g.admin()...)
}
