package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/ports"
)

type ReviewHandler struct {
	reviews ports.ReviewService
}

func NewReviewHandler(reviews ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Write records the caller's review of a book.
//
// @Summary      Write a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      int                 true  "Book id"
// @Param        body     body      writeReviewRequest  true  "Review"
// @Success      201      {object}  messageResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  AuthErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /authenticated/review/write/{book_id} [post]
func (h *ReviewHandler) Write(c echo.Context) error {
	reviewer, err := currentUsername(c)
	if err != nil {
		return err
	}
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	var req writeReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.reviews.WriteReview(c.Request().Context(), toWriteReviewInput(req, bookID, reviewer)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "Review created successfully"})
}

// List returns the reviews of a book, most recent first.
//
// @Summary      Reviews of a book
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      int  true  "Book id"
// @Success      200      {array}   reviewResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  AuthErrorResponse
// @Router       /authenticated/review/get-reviews-of/{book_id} [get]
func (h *ReviewHandler) List(c echo.Context) error {
	bookID, err := bookIDParam(c)
	if err != nil {
		return err
	}

	reviews, err := h.reviews.ListReviews(c.Request().Context(), bookID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponses(reviews))
}
