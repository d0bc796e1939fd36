package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/handler"
)

// RegisterRoles registers role management.  Reads are public and served
// through the response cache; mutations require the admin role and purge
// the cache in the handler.
func RegisterRoles(api *echo.Group, h *handler.RoleHandler, g Guards) {
	reads := append(g.limit(), g.Cache.Middleware())
	api.GET("/roles", h.List, reads...)
	api.GET("/roles/:name", h.Get, reads...)

	api.POST("/roles", h.Create, g.admin()...)
	api.PUT("/roles/:name", h.Update, g.admin()...)
	api.DELETE("/roles/:name", h.Delete, g.admin()...)
}
