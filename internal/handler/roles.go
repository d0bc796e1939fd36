package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/service"
)

// CachePurger drops cached role reads after a mutation.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// RoleHandler serves role management.  Cache may be nil.
type RoleHandler struct {
	Roles  *service.RoleRegistry
	Cache  CachePurger
	Logger *slog.Logger
}

func NewRoleHandler(roles *service.RoleRegistry, cache CachePurger, logger *slog.Logger) *RoleHandler {
	return &RoleHandler{Roles: roles, Cache: cache, Logger: logger}
}

type createRoleReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
type updateRoleReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// purge drops cached role reads.  A cache outage only delays freshness
// until the entries expire.
func (h *RoleHandler) purge(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Purge(ctx); err != nil {
		h.Logger.Warn("role cache purge failed", "err", err)
	}
}

func (h *RoleHandler) Create(c echo.Context) error {
	var req createRoleReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRoleName(req.Name); err != nil {
		return err
	}
	if err := validateRoleDescription(req.Description); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	role, err := h.Roles.Create(ctx, req.Name, req.Description)
	if err != nil {
		return err
	}
	h.purge(ctx)
	return c.JSON(http.StatusCreated, toRoleResp(role))
}

func (h *RoleHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	roles, err := h.Roles.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResps(roles))
}

func (h *RoleHandler) Get(c echo.Context) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	role, err := h.Roles.Find(ctx, name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResp(role))
}

// Update applies a partial update; absent fields stay unchanged.
func (h *RoleHandler) Update(c echo.Context) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}
	var req updateRoleReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if err := validateRoleName(trimmed); err != nil {
			return err
		}
		req.Name = &trimmed
	}
	if req.Description != nil {
		if err := validateRoleDescription(*req.Description); err != nil {
			return err
		}
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	role, err := h.Roles.Update(ctx, name, service.RoleUpdate{Name: req.Name, Description: req.Description})
	if err != nil {
		return err
	}
	h.purge(ctx)
	return c.JSON(http.StatusOK, toRoleResp(role))
}

func (h *RoleHandler) Delete(c echo.Context) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Roles.Delete(ctx, name); err != nil {
		return err
	}
	h.purge(ctx)
	return c.NoContent(http.StatusNoContent)
}
