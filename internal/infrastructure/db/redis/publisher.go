package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

const DefaultChannel = "bookstore:notifications"

// Publisher delivers author notifications by publishing them as JSON on a
// Redis channel. Subscribers handle the actual e-mail.
type Publisher struct {
	client  *redis.Client
	channel string
}

func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: client, channel: channel}
}

type notificationMessage struct {
	Recipient string `json:"recipient"`
	BookID    int64  `json:"book_id"`
	BookTitle string `json:"book_title"`
	Reviewer  string `json:"reviewer"`
	Message   string `json:"message"`
	CreatedAt int64  `json:"created_at"`
}

func encodeNotification(n domain.Notification) ([]byte, error) {
	return json.Marshal(notificationMessage{
		Recipient: n.Recipient,
		BookID:    n.BookID,
		BookTitle: n.BookTitle,
		Reviewer:  n.Reviewer,
		Message:   n.Message(),
		CreatedAt: n.CreatedAt.Unix(),
	})
}

// Send publishes n. Having no subscribers is not an error.
func (p *Publisher) Send(ctx context.Context, n domain.Notification) error {
	payload, err := encodeNotification(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Ping reports whether the Redis server is reachable.
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
