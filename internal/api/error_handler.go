package api

import (
	"errors"
	"fmt"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/api/handler"
	"github.com/bookstore/bookstore-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders 401 and 403 as {status, error, message, path}.
//   - Renders everything else as {"errors": [...]}.
//   - Maps conflict and not-found domain errors to 409 and 404.
//   - Answers any other failure with 500 and its message, logging the cause.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msgs := resolveError(err, log, c)
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			_ = c.JSON(code, handler.AuthErrorResponse{
				Status:  code,
				Error:   http.StatusText(code),
				Message: msgs[0],
				Path:    c.Request().URL.Path,
			})
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{Errors: msgs})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, []string) {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Messages
	}

	// Echo's own errors (bind failures, 404 from router, etc.) and the
	// messages composed by handlers.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, []string{fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrBookExists),
		errors.Is(err, domain.ErrDuplicateTitle):
		return http.StatusConflict, []string{sentence(err.Error())}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, []string{sentence(err.Error())}
	}

	// Domain preconditions (rating range, unknown book, author or reviewer)
	// share the 500 path with unexpected faults and keep their message.
	logUnhandled(log, c, err)
	return http.StatusInternalServerError, []string{sentence(err.Error())}
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}

// sentence upper-cases the first letter of an error message.
func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
