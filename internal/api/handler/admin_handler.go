package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/ports"
)

type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// DeleteUser removes an account by username. Deleting a missing user
// reports zero and is not an error.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  deleteUserResponse
// @Failure      401       {object}  AuthErrorResponse
// @Failure      403       {object}  AuthErrorResponse
// @Router       /admin/users/{username} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	n, err := h.accounts.Delete(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{Deleted: n})
}
