package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/handler"
)

// RegisterSessions registers login, refresh, logout and login history.
// PUT /sessions reads the refresh token itself so that a rotated token is
// verified exactly once.
func RegisterSessions(api *echo.Group, h *handler.SessionHandler, g Guards) {
	api.POST("/sessions", h.Login, g.limit()...)
	api.GET("/sessions", h.List, g.authenticated()...)
	api.PUT("/sessions", h.Refresh, g.limit()...)
	api.DELETE("/sessions", h.Logout, g.authenticated()...)

	api.POST("/sessions/:provider", h.OAuthStart, g.limit()...)
	api.GET("/sessions/:provider", h.OAuthCallback, g.limit()...)
}
