package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
	"github.com/bookstore/bookstore-api/internal/pkg/metrics"
)

type ReviewService struct {
	reviews  ports.ReviewRepository
	books    ports.BookRepository
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewReviewService(
	reviews ports.ReviewRepository,
	books ports.BookRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		books:    books,
		users:    users,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WriteReview validates and stores a review, then hands an author
// notification to the notifier without waiting for it.
func (s *ReviewService) WriteReview(ctx context.Context, in ports.WriteReviewInput) (*domain.Review, error) {
	// Rating is checked before any store access.
	if !domain.ValidRating(in.Rating) {
		return nil, domain.ErrRatingOutOfRange
	}

	book, err := s.books.FindByID(ctx, in.BookID)
	if err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return nil, fmt.Errorf("%w with id: %d", domain.ErrBookNotFound, in.BookID)
		}
		return nil, fmt.Errorf("write review: %w", err)
	}

	if _, err := s.users.FindByUsername(ctx, in.ReviewerUsername); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w with username: %s", domain.ErrReviewerNotFound, in.ReviewerUsername)
		}
		return nil, fmt.Errorf("write review: %w", err)
	}

	review := &domain.Review{
		BookID:           book.ID,
		ReviewerUsername: in.ReviewerUsername,
		Rating:           in.Rating,
		Comment:          in.Comment,
		Timestamp:        s.now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("write review: %w", err)
	}
	metrics.ReviewsCreatedTotal.WithLabelValues(strconv.Itoa(review.Rating)).Inc()

	s.notifyAuthor(ctx, book, review)
	return review, nil
}

// notifyAuthor never fails the review: a missing author is only logged.
func (s *ReviewService) notifyAuthor(ctx context.Context, book *domain.Book, review *domain.Review) {
	if s.notifier == nil {
		return
	}
	author, err := s.users.FindByUsername(ctx, book.AuthorUsername)
	if err != nil {
		s.log.Warn().Err(err).Int64("book_id", book.ID).Msg("cannot resolve author for notification")
		return
	}
	s.notifier.Notify(domain.Notification{
		Recipient: author.ContactAddress(),
		BookID:    book.ID,
		BookTitle: book.Title,
		Reviewer:  review.ReviewerUsername,
		CreatedAt: review.Timestamp,
	})
}

// ListReviews returns the reviews of a book, most recent first. An unknown
// book yields an empty list.
func (s *ReviewService) ListReviews(ctx context.Context, bookID int64) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
