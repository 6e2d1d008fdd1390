package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Signup creates a new user account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Signup(c.Request().Context(), toSignupInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			msg := fmt.Sprintf("User with username=%s already exists. Please, log in.", req.Username)
			return echo.NewHTTPError(http.StatusConflict, msg).SetInternal(err)
		}
		return err
	}

	resp := signupResponse{Username: user.Username, Email: user.Email}
	if len(user.Roles) > 0 {
		resp.RoleName = user.Roles[0]
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}

	token, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, loginResponse{Token: token})
	case errors.Is(err, domain.ErrUserNotFound):
		msg := fmt.Sprintf("Username: %s is not found.", req.Username)
		return echo.NewHTTPError(http.StatusNotFound, msg).SetInternal(err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		// Bad credentials surface as a generic authentication failure.
		return echo.NewHTTPError(http.StatusInternalServerError, "Bad credentials").SetInternal(err)
	default:
		return err
	}
}
