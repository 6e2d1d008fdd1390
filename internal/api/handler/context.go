package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

// currentUsername returns the username of the authenticated caller. The
// policy middleware normally rejects anonymous requests first; this is the
// fast-fail for routes mounted without it.
func currentUsername(c echo.Context) (string, error) {
	p, ok := domain.PrincipalFromContext(c.Request().Context())
	if !ok || p.Username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Full authentication is required to access this resource")
	}
	return p.Username, nil
}

// bookIDParam parses the :book_id path segment.
func bookIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		return 0, &ValidationError{Messages: []string{"Book ID must be a number"}}
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return c.Validate(req)
}
