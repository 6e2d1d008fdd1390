package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

const (
	collectionBooks   = "books"
	collectionReviews = "reviews"

	authorTitleIndex = "author_title_unique"
)

type BookRepository struct {
	books   *mongo.Collection
	reviews *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		books:   db.Collection(collectionBooks),
		reviews: db.Collection(collectionReviews),
	}
}

// mongoBook uses the caller-supplied book id as _id.
type mongoBook struct {
	ID             int64         `bson:"_id"`
	Title          string        `bson:"title"`
	Content        string        `bson:"content"`
	AuthorUsername string        `bson:"author_username"`
	CreatedAt      time.Time     `bson:"created_at"`
	Reviews        []mongoReview `bson:"reviews,omitempty"`
}

func (mb mongoBook) toDomain() domain.Book {
	return domain.Book{
		ID:             mb.ID,
		Title:          mb.Title,
		Content:        mb.Content,
		AuthorUsername: mb.AuthorUsername,
		CreatedAt:      mb.CreatedAt,
		Reviews:        []domain.Review{},
	}
}

func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.books.InsertOne(ctx, mongoBook{
		ID:             b.ID,
		Title:          b.Title,
		Content:        b.Content,
		AuthorUsername: b.AuthorUsername,
		CreatedAt:      b.CreatedAt.UTC(),
	})
	return classifyInsertError(err)
}

// classifyInsertError maps a duplicate key on the author/title index to
// ErrDuplicateTitle and any other duplicate key (the _id) to ErrBookExists.
func classifyInsertError(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), authorTitleIndex) {
			return domain.ErrDuplicateTitle
		}
		return domain.ErrBookExists
	}
	return fmt.Errorf("insert book: %w", err)
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBook
	if err := r.books.FindOne(ctx, bson.M{"_id": id}).Decode(&mb); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}

	books, err := r.withReviews(ctx, []mongoBook{mb})
	if err != nil {
		return nil, err
	}
	return &books[0], nil
}

func (r *BookRepository) ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.books.CountDocuments(ctx, bson.M{"title": title, "author_username": author}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count books: %w", err)
	}
	return n > 0, nil
}

func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	return r.find(ctx, bson.M{})
}

// SearchByTitle runs a case-insensitive substring match. The keyword is
// quoted so regex metacharacters match literally.
func (r *BookRepository) SearchByTitle(ctx context.Context, keyword string) ([]domain.Book, error) {
	return r.find(ctx, bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}})
}

func (r *BookRepository) find(ctx context.Context, filter bson.M) ([]domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.books.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	var docs []mongoBook
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return r.withReviews(ctx, docs)
}

// TopRated joins reviews in the pipeline and sorts by their average rating.
func (r *BookRepository) TopRated(ctx context.Context, limit int) ([]domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.books.Aggregate(ctx, topRatedPipeline(limit))
	if err != nil {
		return nil, fmt.Errorf("aggregate top books: %w", err)
	}
	var docs []mongoBook
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode top books: %w", err)
	}

	out := make([]domain.Book, len(docs))
	for i, doc := range docs {
		out[i] = doc.toDomain()
		out[i].Reviews = sortedReviews(doc.Reviews)
	}
	return out, nil
}

// topRatedPipeline ranks books by average rating, unreviewed books counting
// as 0, with ties broken by ascending id.
func topRatedPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionReviews,
			"localField":   "_id",
			"foreignField": "book_id",
			"as":           "reviews",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"avg_rating": bson.M{"$ifNull": bson.A{bson.M{"$avg": "$reviews.rating"}, 0}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avg_rating", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

// withReviews loads the reviews of all docs with a single query.
func (r *BookRepository) withReviews(ctx context.Context, docs []mongoBook) ([]domain.Book, error) {
	out := make([]domain.Book, len(docs))
	if len(docs) == 0 {
		return out, nil
	}

	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		out[i] = d.toDomain()
	}

	cur, err := r.reviews.Find(ctx, bson.M{"book_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	var reviews []mongoReview
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	byBook := make(map[int64][]mongoReview, len(docs))
	for _, rv := range reviews {
		byBook[rv.BookID] = append(byBook[rv.BookID], rv)
	}
	for i := range out {
		out[i].Reviews = sortedReviews(byBook[out[i].ID])
	}
	return out, nil
}

func sortedReviews(docs []mongoReview) []domain.Review {
	out := make([]domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.books.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author_username", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(authorTitleIndex),
		},
		{Keys: bson.D{{Key: "title", Value: 1}}},
	})
	return err
}
