package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
	"github.com/bookstore/bookstore-api/internal/pkg/metrics"
)

const bearerPrefix = "Bearer "

// Authenticate resolves a bearer token into a principal stored in the
// request context. It never rejects a request: a missing or bad credential
// just leaves the request anonymous, and Policy decides what that means.
func Authenticate(tokens ports.TokenValidator, loader ports.PrincipalLoader, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			req := c.Request()
			principal, err := resolve(c, tokens, loader, token)
			if err != nil {
				reason := domain.TokenFailureReason(err)
				metrics.TokenValidationFailuresTotal.WithLabelValues(reason).Inc()
				log.Warn().
					Err(err).
					Str("reason", reason).
					Str("path", req.URL.Path).
					Msg("cannot set user authentication")
				return next(c)
			}

			c.SetRequest(req.WithContext(domain.ContextWithPrincipal(req.Context(), principal)))
			return next(c)
		}
	}
}

func resolve(c echo.Context, tokens ports.TokenValidator, loader ports.PrincipalLoader, token string) (*domain.Principal, error) {
	if err := tokens.Validate(token); err != nil {
		return nil, err
	}
	username, err := tokens.SubjectOf(token)
	if err != nil {
		return nil, err
	}
	return loader.LoadPrincipal(c.Request().Context(), username)
}

// bearerToken extracts the credential after the case-sensitive "Bearer "
// prefix.
func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// CurrentPrincipal returns the principal set by Authenticate, if any.
func CurrentPrincipal(c echo.Context) (*domain.Principal, bool) {
	return domain.PrincipalFromContext(c.Request().Context())
}
