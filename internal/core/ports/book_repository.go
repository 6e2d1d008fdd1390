package ports

import (
	"context"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

// BookRepository defines persistence operations for books. Every book it
// returns carries its reviews, most recent first.
type BookRepository interface {
	// Create returns domain.ErrBookExists when the id is taken and
	// domain.ErrDuplicateTitle when the author already has that title.
	Create(ctx context.Context, book *domain.Book) error
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	ExistsByTitleAndAuthor(ctx context.Context, title, authorUsername string) (bool, error)
	List(ctx context.Context) ([]domain.Book, error)
	// SearchByTitle matches books whose title contains keyword, ignoring case.
	SearchByTitle(ctx context.Context, keyword string) ([]domain.Book, error)
	// TopRated orders by average rating descending; unrated books rank as 0.
	TopRated(ctx context.Context, limit int) ([]domain.Book, error)
}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	// ListByBook returns the reviews of a book, most recent first.
	ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error)
}
