package presenter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/creamtown0420/ow-guides/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func BadRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: msg})
}

func Forbidden(c echo.Context, msg string) error {
	return c.JSON(http.StatusForbidden, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	fmt.Println("Internal error:", err)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// FromError maps domain errors to their HTTP status. Unknown errors
// become a generic 500 so internals never leak to the client.
func FromError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		return BadRequest(c, err)
	case errors.Is(err, domain.ErrSignInRequired):
		return Unauthorized(c, "sign-in required")
	case errors.Is(err, domain.ErrForbidden):
		return Forbidden(c, "not the owner of this record")
	case errors.Is(err, domain.ErrReadOnly):
		return Forbidden(c, "catalog is read-only")
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return Conflict(c, "already registered")
	default:
		return InternalError(c, err)
	}
}
