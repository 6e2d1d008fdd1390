package sqlstore

import (
	"strconv"
	"time"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

type roleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:32;not null;uniqueIndex"`
}

func (roleModel) TableName() string { return "roles" }

type userModel struct {
	ID           uint        `gorm:"primaryKey"`
	Username     string      `gorm:"size:64;not null;uniqueIndex"`
	Email        string      `gorm:"size:255"`
	PasswordHash string      `gorm:"size:255;not null"`
	Roles        []roleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	roles := make([]string, len(m.Roles))
	for i, r := range m.Roles {
		roles[i] = r.Name
	}
	return &domain.User{
		ID:           strconv.FormatUint(uint64(m.ID), 10),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt,
	}
}

// bookModel keeps the caller-supplied id as primary key.
type bookModel struct {
	ID             int64         `gorm:"primaryKey;autoIncrement:false"`
	Title          string        `gorm:"size:255;not null;uniqueIndex:idx_books_author_title"`
	Content        string        `gorm:"type:text;not null"`
	AuthorUsername string        `gorm:"size:64;not null;uniqueIndex:idx_books_author_title"`
	Reviews        []reviewModel `gorm:"foreignKey:BookID"`
	CreatedAt      time.Time
}

func (bookModel) TableName() string { return "books" }

func (m bookModel) toDomain() domain.Book {
	reviews := make([]domain.Review, len(m.Reviews))
	for i, r := range m.Reviews {
		reviews[i] = r.toDomain()
	}
	return domain.Book{
		ID:             m.ID,
		Title:          m.Title,
		Content:        m.Content,
		AuthorUsername: m.AuthorUsername,
		Reviews:        reviews,
		CreatedAt:      m.CreatedAt,
	}
}

type reviewModel struct {
	ID               uint      `gorm:"primaryKey"`
	BookID           int64     `gorm:"not null;index:idx_reviews_book_ts,priority:1"`
	ReviewerUsername string    `gorm:"size:64;not null"`
	Rating           int       `gorm:"not null"`
	Comment          string    `gorm:"type:text"`
	ReviewedAt       time.Time `gorm:"not null;index:idx_reviews_book_ts,priority:2"`
}

func (reviewModel) TableName() string { return "reviews" }

func (m reviewModel) toDomain() domain.Review {
	return domain.Review{
		ID:               strconv.FormatUint(uint64(m.ID), 10),
		BookID:           m.BookID,
		ReviewerUsername: m.ReviewerUsername,
		Rating:           m.Rating,
		Comment:          m.Comment,
		Timestamp:        m.ReviewedAt,
	}
}
