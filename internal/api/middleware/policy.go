package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

const (
	msgUnauthorized = "Full authentication is required to access this resource"
	msgForbidden    = "Access Denied"
)

type requirement int

const (
	permitAll requirement = iota
	authenticated
	adminOnly
)

type rule struct {
	match func(path string) bool
	need  requirement
}

func prefix(p string) func(string) bool {
	return func(path string) bool { return strings.HasPrefix(path, p) }
}

func exact(p string) func(string) bool {
	return func(path string) bool { return path == p }
}

// rules are evaluated top to bottom; the first match wins.
var rules = []rule{
	{prefix("/api/auth/"), permitAll},
	{prefix("/api/test/"), permitAll},
	{exact("/health"), permitAll},
	{prefix("/health/"), permitAll},
	{exact("/metrics"), permitAll},
	{prefix("/swagger/"), permitAll},
	{func(path string) bool { return strings.HasSuffix(path, "/book/save") }, adminOnly},
	{prefix("/admin/"), adminOnly},
}

func requirementFor(path string) requirement {
	for _, r := range rules {
		if r.match(path) {
			return r.need
		}
	}
	return authenticated
}

// Policy enforces the path rule table against the principal established by
// Authenticate. It must run after Authenticate.
func Policy() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			need := requirementFor(c.Request().URL.Path)
			if need == permitAll {
				return next(c)
			}

			principal, ok := CurrentPrincipal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthorized)
			}
			if need == adminOnly && !principal.HasAuthority(domain.RoleAdmin) {
				return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
			}
			return next(c)
		}
	}
}
