package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/utils"
)

const requestTimeout = 5 * time.Second

// withTimeout bounds the storage work of one request.
func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// currentClaims returns the claims stored by the JWT middleware.
func currentClaims(c echo.Context) (*utils.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, service.ErrUnauthorized
	}
	return claims, nil
}

// ----- DTOs shared by several handlers -----

type roleResp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toRoleResp(r model.Role) roleResp {
	return roleResp{ID: r.ID, Name: r.Name, Description: r.Description}
}

func toRoleResps(roles []model.Role) []roleResp {
	out := make([]roleResp, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResp(r))
	}
	return out
}
