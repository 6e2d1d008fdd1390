package domain

import (
	"fmt"
	"time"
)

// Notification tells a book's author that a review was posted.
type Notification struct {
	Recipient string    `json:"recipient"`
	BookID    int64     `json:"book_id"`
	BookTitle string    `json:"book_title"`
	Reviewer  string    `json:"reviewer"`
	CreatedAt time.Time `json:"created_at"`
}

func (n Notification) Message() string {
	return fmt.Sprintf("Your book '%s' has a new review.", n.BookTitle)
}
