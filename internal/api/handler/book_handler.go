package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	books ports.BookService
}

func NewBookHandler(books ports.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// Save publishes a book authored by the caller.
//
// @Summary      Save a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveBookRequest  true  "Book"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  AuthErrorResponse
// @Failure      403   {object}  AuthErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /book/save [post]
func (h *BookHandler) Save(c echo.Context) error {
	author, err := currentUsername(c)
	if err != nil {
		return err
	}

	var req saveBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.books.SaveBook(c.Request().Context(), toSaveBookInput(req, author))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookExists):
			msg := fmt.Sprintf("Book with id=%d already exists.", *req.BookID)
			return echo.NewHTTPError(http.StatusConflict, msg).SetInternal(err)
		case errors.Is(err, domain.ErrDuplicateTitle):
			msg := fmt.Sprintf("You have already published a book with this title: %s", req.Title)
			return echo.NewHTTPError(http.StatusConflict, msg).SetInternal(err)
		}
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("Book with id=%d is saved.", book.ID),
	})
}

// AllBooks lists every book.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   bookResponse
// @Failure      401  {object}  AuthErrorResponse
// @Router       /book/all-books [get]
func (h *BookHandler) AllBooks(c echo.Context) error {
	books, err := h.books.ListBooks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Search finds books whose title contains the keyword, ignoring case.
//
// @Summary      Search books by title
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  true  "Title fragment"
// @Success      200      {array}   bookResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  AuthErrorResponse
// @Router       /book/search [get]
func (h *BookHandler) Search(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if keyword == "" {
		return &ValidationError{Messages: []string{"Keyword is mandatory"}}
	}

	books, err := h.books.SearchBooks(c.Request().Context(), keyword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}

// Top lists the best rated books.
//
// @Summary      Top rated books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of books (default 10, max 100)"
// @Success      200    {array}   bookResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  AuthErrorResponse
// @Router       /book/top [get]
func (h *BookHandler) Top(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return &ValidationError{Messages: []string{"Limit must be a positive number"}}
		}
		limit = n
	}

	books, err := h.books.TopBooks(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponses(books))
}
