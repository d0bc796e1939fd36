package handler

import (
	"net/mail"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

const (
	maxEmailLen       = 250
	minPasswordLen    = 8
	maxPasswordLen    = 100
	maxRoleNameLen    = 80
	maxRoleDescLen    = 255
	defaultPageNumber = 1
	defaultPageSize   = 20
	maxPageSize       = 100
)

// bindJSON decodes the request body into v.  Query and path parameters
// are never bound.  An empty body leaves v untouched.
func bindJSON(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return badRequest("email is required")
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return badRequest("email must be at most %d characters", maxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return badRequest("email is not a valid address")
	}
	return nil
}

func validatePassword(field, password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLen || n > maxPasswordLen {
		return badRequest("%s must be %d to %d characters", field, minPasswordLen, maxPasswordLen)
	}
	return nil
}

func validateRoleName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 || n > maxRoleNameLen {
		return badRequest("name must be 1 to %d characters", maxRoleNameLen)
	}
	return nil
}

func validateRoleDescription(desc string) error {
	if utf8.RuneCountInString(desc) > maxRoleDescLen {
		return badRequest("description must be at most %d characters", maxRoleDescLen)
	}
	return nil
}

// queryInt parses an optional positive integer query parameter.
func queryInt(c echo.Context, name string, def, min, max int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, badRequest("%s must be an integer between %d and %d", name, min, max)
	}
	return n, nil
}

// pathParam returns the unescaped path parameter name.
func pathParam(c echo.Context, name string) (string, error) {
	v, err := url.PathUnescape(c.Param(name))
	if err != nil {
		return "", badRequest("malformed %s", name)
	}
	return v, nil
}
