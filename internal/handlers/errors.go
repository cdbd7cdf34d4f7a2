package handlers

import (
	"errors"
	"net/http"

	"farmmarket/internal/repositories"
	"farmmarket/internal/services"

	"github.com/labstack/echo/v4"
)

// httpError maps domain errors to transport responses. Anything unrecognized
// becomes a 500 with a generic message; the cause is left to the request log.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrDuplicateName):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repositories.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, repositories.ErrTransaction):
		return echo.NewHTTPError(http.StatusInternalServerError, "operation failed and was rolled back")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
