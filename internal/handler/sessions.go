package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/oauth"
	"github.com/iliyamo/auth-service/internal/service"
)

// SessionHandler serves login, refresh, logout, login history and the
// OAuth login flow.
type SessionHandler struct {
	Auth       *service.AuthService
	Federation *oauth.Federation
	DateFormat string
}

func NewSessionHandler(auth *service.AuthService, fed *oauth.Federation, dateFormat string) *SessionHandler {
	return &SessionHandler{Auth: auth, Federation: fed, DateFormat: dateFormat}
}

type sessionResp struct {
	EventDate  string `json:"event_date"`
	UserAgent  string `json:"user_agent"`
	DeviceType string `json:"device_type"`
}

// Login exchanges email and password for a token pair.
func (h *SessionHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	req.Email = model.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return badRequest("email and password are required")
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Email, req.Password, c.Request().UserAgent())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pair)
}

// List pages through the subject's login history, newest first.
func (h *SessionHandler) List(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	page, err := queryInt(c, "page_number", defaultPageNumber, 1, math.MaxInt32)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "page_size", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	sessions, err := h.Auth.Sessions.ListForUser(ctx, claims.UserID, page, size)
	if err != nil {
		return err
	}
	out := make([]sessionResp, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResp{
			EventDate:  s.EventDate.Format(h.DateFormat),
			UserAgent:  s.UserAgent,
			DeviceType: string(s.DeviceType),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Refresh rotates the refresh token in the Authorization header.
func (h *SessionHandler) Refresh(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	pair, err := h.Auth.Tokens.Refresh(ctx, middleware.BearerToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the access token and the refresh token issued with it.
func (h *SessionHandler) Logout(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Auth.Tokens.Revoke(ctx, claims); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// OAuthStart redirects the browser to the provider's consent page.
func (h *SessionHandler) OAuthStart(c echo.Context) error {
	u, err := h.Federation.Initiate(c.Param("provider"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, u)
}

// OAuthCallback finishes the provider login and issues a token pair.
func (h *SessionHandler) OAuthCallback(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	pair, err := h.Federation.Complete(ctx, c.Param("provider"), c.QueryParam("code"), c.Request().UserAgent())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, pair)
}
