package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/service"
)

// badRequest wraps msg as a BadRequest domain error.
func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", service.ErrBadRequest, fmt.Sprintf(format, args...))
}

// statusOf maps domain errors onto HTTP statuses; 0 means "not a domain
// error".
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	}
	return 0
}

// NewHTTPErrorHandler renders every error as {"message": "..."}.  Domain
// errors keep their text; echo errors keep their code except 422, which
// becomes 400; anything else is logged and hidden behind a 500.
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := statusOf(err), err.Error()
		if status == 0 {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
				if m, ok := he.Message.(string); ok {
					msg = m
				} else {
					msg = http.StatusText(he.Code)
				}
			} else {
				status, msg = http.StatusInternalServerError, "internal server error"
				logger.Error("unhandled error",
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"err", err)
			}
		}
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, echo.Map{"message": msg})
		}
		if err != nil {
			logger.Error("write error response", "err", err)
		}
	}
}
