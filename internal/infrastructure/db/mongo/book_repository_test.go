package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

func TestSortedReviews_NewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := primitive.NewObjectIDFromTimestamp(base)
	second := primitive.NewObjectIDFromTimestamp(base.Add(time.Second))

	got := sortedReviews([]mongoReview{
		{ID: first, BookID: 1, Comment: "old", Timestamp: base},
		{ID: primitive.NewObjectID(), BookID: 1, Comment: "new", Timestamp: base.Add(time.Hour)},
		{ID: second, BookID: 1, Comment: "tie-later-id", Timestamp: base},
	})

	if len(got) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(got))
	}
	if got[0].Comment != "new" {
		t.Errorf("expected newest first, got %q", got[0].Comment)
	}
	if got[1].Comment != "tie-later-id" || got[2].Comment != "old" {
		t.Errorf("expected ties broken by id, got %q then %q", got[1].Comment, got[2].Comment)
	}
}

func TestMongoBook_ToDomainHasEmptyReviews(t *testing.T) {
	b := mongoBook{ID: 7, Title: "Dune", AuthorUsername: "admin"}.toDomain()
	if b.Reviews == nil || len(b.Reviews) != 0 {
		t.Fatalf("expected empty, non-nil reviews")
	}
	if b.ID != 7 || b.Title != "Dune" {
		t.Fatalf("unexpected book: %+v", b)
	}
}

func duplicateKey(index string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: bookstore.books index: " + index + " dup key",
	}}}
}

func TestClassifyInsertError(t *testing.T) {
	network := errors.New("connection reset")

	cases := []struct {
		name string
		err  error
		want error
	}{
		{"ok", nil, nil},
		{"author title index", duplicateKey(authorTitleIndex), domain.ErrDuplicateTitle},
		{"primary key", duplicateKey("_id_"), domain.ErrBookExists},
		{"other failure", network, network},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyInsertError(tc.err)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if errors.Is(classifyInsertError(network), domain.ErrBookExists) {
		t.Fatal("non duplicate errors must not map to a conflict")
	}
}

func TestTopRatedPipeline(t *testing.T) {
	p := topRatedPipeline(3)

	stages := make([]string, len(p))
	for i, st := range p {
		stages[i] = st[0].Key
	}
	want := []string{"$lookup", "$addFields", "$sort", "$limit"}
	if len(stages) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("expected stages %v, got %v", want, stages)
		}
	}

	lookup := p[0][0].Value.(bson.M)
	if lookup["from"] != collectionReviews || lookup["localField"] != "_id" || lookup["foreignField"] != "book_id" {
		t.Errorf("unexpected $lookup: %v", lookup)
	}
	sortKeys := p[2][0].Value.(bson.D)
	if sortKeys[0].Key != "avg_rating" || sortKeys[0].Value != -1 || sortKeys[1].Key != "_id" || sortKeys[1].Value != 1 {
		t.Errorf("unexpected $sort: %v", sortKeys)
	}
	if p[3][0].Value != 3 {
		t.Errorf("expected $limit 3, got %v", p[3][0].Value)
	}
}
