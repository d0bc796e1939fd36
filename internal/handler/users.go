package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/service"
)

// UserHandler serves registration, self-service account endpoints and the
// admin-only subscription endpoints.
type UserHandler struct {
	Credentials *service.CredentialStore
	Roles       *service.RoleRegistry
}

func NewUserHandler(creds *service.CredentialStore, roles *service.RoleRegistry) *UserHandler {
	return &UserHandler{Credentials: creds, Roles: roles}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
type membershipReq struct {
	Role string `json:"role"`
}

type userResp struct {
	ID    string   `json:"id,omitempty"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Register creates an account holding the default role.
func (h *UserHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	req.Email = model.NormalizeEmail(req.Email)
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if err := validatePassword("password", req.Password); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.Credentials.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResp{ID: u.ID, Email: u.Email, Roles: u.RoleNames()})
}

// Me returns the email and current roles of the token subject.
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.Credentials.GetUser(ctx, claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResp{Email: u.Email, Roles: u.RoleNames()})
}

// ChangePassword replaces the subject's password after checking the old one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	var req changePasswordReq
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.OldPassword == "" {
		return badRequest("old_password is required")
	}
	if err := validatePassword("new_password", req.NewPassword); err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Credentials.ChangePassword(ctx, claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// membership reads the optional {"role": "..."} body of the subscribe
// endpoints.  An empty role means the subscriber role.
func membership(c echo.Context) (string, error) {
	var req membershipReq
	if err := bindJSON(c, &req); err != nil {
		return "", err
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		return "", nil
	}
	if err := validateRoleName(role); err != nil {
		return "", err
	}
	return role, nil
}

// Subscribe grants the subscriber role, or the named role, to user :id.
func (h *UserHandler) Subscribe(c echo.Context) error {
	role, err := membership(c)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	userID := c.Param("id")
	if role == "" {
		role = model.RoleSubscriber
		err = h.Roles.Subscribe(ctx, userID)
	} else {
		err = h.Roles.AddRoleToUser(ctx, userID, role)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "role " + role + " granted"})
}

// UserRoles lists the roles of user :id.
func (h *UserHandler) UserRoles(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	roles, err := h.Roles.RolesOfUser(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResps(roles))
}

// Unsubscribe revokes the subscriber role, or the named role, from user :id.
func (h *UserHandler) Unsubscribe(c echo.Context) error {
	role, err := membership(c)
	if err != nil {
		return err
	}
	if role == "" {
		role = model.RoleSubscriber
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.Roles.RemoveRoleFromUser(ctx, c.Param("id"), role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
