package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

type BookRepository struct {
	db *gorm.DB
}

func newestReviewsFirst(db *gorm.DB) *gorm.DB {
	return db.Order("reviewed_at DESC").Order("id DESC")
}

func (r *BookRepository) withReviews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Reviews", newestReviewsFirst)
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	m := bookModel{
		ID:             b.ID,
		Title:          b.Title,
		Content:        b.Content,
		AuthorUsername: b.AuthorUsername,
		CreatedAt:      b.CreatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&bookModel{}).Where("id = ?", b.ID).Count(&n).Error; err != nil {
			return fmt.Errorf("check book id: %w", err)
		}
		if n > 0 {
			return domain.ErrBookExists
		}
		return tx.Omit("Reviews").Create(&m).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.classifyDuplicate(ctx, b.ID)
	}
	if err != nil && !errors.Is(err, domain.ErrBookExists) {
		return fmt.Errorf("insert book: %w", err)
	}
	return err
}

// classifyDuplicate tells a primary key clash (a concurrent save of the same
// id won the race) from an author/title clash. It runs outside the failed
// transaction since postgres refuses further statements in an aborted one.
func (r *BookRepository) classifyDuplicate(ctx context.Context, id int64) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&bookModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check book id: %w", err)
	}
	if n > 0 {
		return domain.ErrBookExists
	}
	return domain.ErrDuplicateTitle
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	var m bookModel
	if err := r.withReviews(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	b := m.toDomain()
	return &b, nil
}

func (r *BookRepository) ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&bookModel{}).
		Where("title = ? AND author_username = ?", title, author).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count books: %w", err)
	}
	return n > 0, nil
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	var models []bookModel
	if err := r.withReviews(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return toDomainBooks(models), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByTitle matches title substrings case-insensitively. LIKE wildcards
// in the keyword are escaped.
func (r *BookRepository) SearchByTitle(ctx context.Context, keyword string) ([]domain.Book, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"

	var models []bookModel
	err := r.withReviews(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return toDomainBooks(models), nil
}

// TopRated ranks book ids by average rating in SQL, then loads the books
// and restores that order.
func (r *BookRepository) TopRated(ctx context.Context, limit int) ([]domain.Book, error) {
	var ranked []struct {
		ID int64
	}
	err := r.db.WithContext(ctx).
		Table("books").
		Select("books.id AS id").
		Joins("LEFT JOIN reviews ON reviews.book_id = books.id").
		Group("books.id").
		Order("COALESCE(AVG(reviews.rating), 0) DESC").
		Order("books.id ASC").
		Limit(limit).
		Scan(&ranked).Error
	if err != nil {
		return nil, fmt.Errorf("rank books: %w", err)
	}
	if len(ranked) == 0 {
		return []domain.Book{}, nil
	}

	ids := make([]int64, len(ranked))
	for i, row := range ranked {
		ids[i] = row.ID
	}
	var models []bookModel
	if err := r.withReviews(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("load top books: %w", err)
	}

	byID := make(map[int64]bookModel, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}
	out := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			out = append(out, m.toDomain())
		}
	}
	return out, nil
}

func toDomainBooks(models []bookModel) []domain.Book {
	out := make([]domain.Book, len(models))
	for i, m := range models {
		out[i] = m.toDomain()
	}
	return out
}

type ReviewRepository struct {
	db *gorm.DB
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{
		BookID:           rv.BookID,
		ReviewerUsername: rv.ReviewerUsername,
		Rating:           rv.Rating,
		Comment:          rv.Comment,
		ReviewedAt:       rv.Timestamp.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	rv.ID = fmt.Sprint(m.ID)
	return nil
}

func (r *ReviewRepository) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	var models []reviewModel
	err := newestReviewsFirst(r.db.WithContext(ctx)).
		Where("book_id = ?", bookID).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]domain.Review, len(models))
	for i, m := range models {
		out[i] = m.toDomain()
	}
	return out, nil
}
