package handler

import (
	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

// --- Request → Service input ---

func toSignupInput(req signupRequest) ports.SignupInput {
	return ports.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		RoleName: req.RoleName,
	}
}

func toSaveBookInput(req saveBookRequest, author string) ports.SaveBookInput {
	return ports.SaveBookInput{
		BookID:         *req.BookID,
		Title:          req.Title,
		Content:        req.Content,
		AuthorUsername: author,
	}
}

func toWriteReviewInput(req writeReviewRequest, bookID int64, reviewer string) ports.WriteReviewInput {
	return ports.WriteReviewInput{
		BookID:           bookID,
		ReviewerUsername: reviewer,
		Rating:           *req.Rating,
		Comment:          req.Comment,
	}
}

// --- Domain → Response ---

func toBookResponse(b domain.Book) bookResponse {
	return bookResponse{
		BookID:         b.ID,
		Title:          b.Title,
		Content:        b.Content,
		AuthorUsername: b.AuthorUsername,
		AverageRating:  b.AverageRating(),
		Reviews:        toReviewResponses(b.Reviews),
	}
}

func toBookResponses(books []domain.Book) []bookResponse {
	out := make([]bookResponse, len(books))
	for i, b := range books {
		out[i] = toBookResponse(b)
	}
	return out
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	out := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = reviewResponse{
			ReviewerUsername: r.ReviewerUsername,
			Rating:           r.Rating,
			Comment:          r.Comment,
			Timestamp:        r.Timestamp,
		}
	}
	return out
}
