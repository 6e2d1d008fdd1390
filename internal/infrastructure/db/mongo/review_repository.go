package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

type mongoReview struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	BookID           int64              `bson:"book_id"`
	ReviewerUsername string             `bson:"reviewer_username"`
	Rating           int                `bson:"rating"`
	Comment          string             `bson:"comment,omitempty"`
	Timestamp        time.Time          `bson:"timestamp"`
}

func (mr mongoReview) toDomain() domain.Review {
	return domain.Review{
		ID:               mr.ID.Hex(),
		BookID:           mr.BookID,
		ReviewerUsername: mr.ReviewerUsername,
		Rating:           mr.Rating,
		Comment:          mr.Comment,
		Timestamp:        mr.Timestamp,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoReview{
		BookID:           rv.BookID,
		ReviewerUsername: rv.ReviewerUsername,
		Rating:           rv.Rating,
		Comment:          rv.Comment,
		Timestamp:        rv.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rv.ID = oid.Hex()
	}
	return nil
}

func (r *ReviewRepository) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"book_id": bookID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	var docs []mongoReview
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "book_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
