package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
	"github.com/bookstore/bookstore-api/internal/pkg/metrics"
)

const (
	DefaultTopLimit = 10
	MaxTopLimit     = 100
)

type BookService struct {
	books  ports.BookRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewBookService(books ports.BookRepository, users ports.UserRepository, logger zerolog.Logger) *BookService {
	return &BookService{books: books, users: users, logger: logger}
}

// SaveBook stores a new book authored by input.AuthorUsername.
func (s *BookService) SaveBook(ctx context.Context, input ports.SaveBookInput) (*domain.Book, error) {
	if _, err := s.users.FindByUsername(ctx, input.AuthorUsername); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w with username: %s", domain.ErrAuthorNotFound, input.AuthorUsername)
		}
		return nil, fmt.Errorf("save book: %w", err)
	}

	exists, err := s.books.ExistsByTitleAndAuthor(ctx, input.Title, input.AuthorUsername)
	if err != nil {
		return nil, fmt.Errorf("save book: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateTitle, input.Title)
	}

	book := &domain.Book{
		ID:             input.BookID,
		Title:          input.Title,
		Content:        input.Content,
		AuthorUsername: input.AuthorUsername,
		Reviews:        []domain.Review{},
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.books.Create(ctx, book); err != nil {
		switch {
		case errors.Is(err, domain.ErrBookExists):
			return nil, fmt.Errorf("%w with id: %d", domain.ErrBookExists, input.BookID)
		case errors.Is(err, domain.ErrDuplicateTitle):
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateTitle, input.Title)
		}
		return nil, fmt.Errorf("save book: %w", err)
	}

	metrics.BooksCreatedTotal.Inc()
	s.logger.Info().Int64("book_id", book.ID).Str("author", book.AuthorUsername).Msg("book saved")
	return book, nil
}

func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// SearchBooks returns books whose title contains keyword, ignoring case.
func (s *BookService) SearchBooks(ctx context.Context, keyword string) ([]domain.Book, error) {
	books, err := s.books.SearchByTitle(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return books, nil
}

// TopBooks returns the best rated books. A non-positive limit means
// DefaultTopLimit; larger limits are capped at MaxTopLimit.
func (s *BookService) TopBooks(ctx context.Context, limit int) ([]domain.Book, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	books, err := s.books.TopRated(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top books: %w", err)
	}
	return books, nil
}
