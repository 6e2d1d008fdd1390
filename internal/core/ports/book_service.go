package ports

import (
	"context"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

// SaveBookInput carries a new book. AuthorUsername comes from the
// authenticated principal, never from the request body.
type SaveBookInput struct {
	BookID         int64
	Title          string
	Content        string
	AuthorUsername string
}

type BookService interface {
	SaveBook(ctx context.Context, input SaveBookInput) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	SearchBooks(ctx context.Context, keyword string) ([]domain.Book, error)
	TopBooks(ctx context.Context, limit int) ([]domain.Book, error)
}

type WriteReviewInput struct {
	BookID           int64
	ReviewerUsername string
	Rating           int
	Comment          string
}

type ReviewService interface {
	WriteReview(ctx context.Context, input WriteReviewInput) (*domain.Review, error)
	ListReviews(ctx context.Context, bookID int64) ([]domain.Review, error)
}

// Notifier accepts a notification for background delivery. It must not block.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotificationSender performs the actual delivery of a notification.
type NotificationSender interface {
	Send(ctx context.Context, n domain.Notification) error
}
