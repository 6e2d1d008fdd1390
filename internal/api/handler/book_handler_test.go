package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

func TestBookHandler_Save_Success(t *testing.T) {
	stub := &stubBookService{
		saveFn: func(ctx context.Context, in ports.SaveBookInput) (*domain.Book, error) {
			if in.AuthorUsername != "Admin" || in.BookID != 7 || in.Title != "Dune" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Book{ID: in.BookID, Title: in.Title}, nil
		},
	}
	handler := NewBookHandler(stub)

	c, rec := newContext(http.MethodPost, "/book/save", `{"bookId":7,"title":"Dune","content":"Spice","authorUsername":"mallory"}`, "Admin", domain.RoleAdmin)
	if err := handler.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "Book with id=7 is saved." {
		t.Fatalf("unexpected message: %q", resp["message"])
	}
}

func TestBookHandler_Save_MandatoryFields(t *testing.T) {
	stub := &stubBookService{
		saveFn: func(ctx context.Context, in ports.SaveBookInput) (*domain.Book, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewBookHandler(stub)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing id", `{"title":"Dune","content":"Spice"}`, "Book ID is mandatory"},
		{"missing title", `{"bookId":1,"content":"Spice"}`, "Title is mandatory"},
		{"blank title", `{"bookId":1,"title":"   ","content":"Spice"}`, "Title is mandatory"},
		{"missing content", `{"bookId":1,"title":"Dune"}`, "Content is mandatory"},
		{"blank content", `{"bookId":1,"title":"Dune","content":"\t"}`, "Content is mandatory"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newContext(http.MethodPost, "/book/save", tc.body, "Admin", domain.RoleAdmin)
			err := handler.Save(c)
			if httpStatus(err) != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
			if msgs := validationMessages(err); len(msgs) != 1 || msgs[0] != tc.want {
				t.Fatalf("expected only %q, got %v", tc.want, msgs)
			}
		})
	}
}

func TestBookHandler_Save_ZeroIDIsPresent(t *testing.T) {
	stub := &stubBookService{
		saveFn: func(ctx context.Context, in ports.SaveBookInput) (*domain.Book, error) {
			return &domain.Book{ID: in.BookID}, nil
		},
	}
	handler := NewBookHandler(stub)

	c, rec := newContext(http.MethodPost, "/book/save", `{"bookId":0,"title":"Zero","content":"c"}`, "Admin", domain.RoleAdmin)
	if err := handler.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestBookHandler_Save_Conflicts(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrBookExists, "Book with id=3 already exists."},
		{domain.ErrDuplicateTitle, "You have already published a book with this title: Dune"},
	}
	for _, tc := range cases {
		stub := &stubBookService{
			saveFn: func(ctx context.Context, in ports.SaveBookInput) (*domain.Book, error) {
				return nil, tc.err
			},
		}
		c, _ := newContext(http.MethodPost, "/book/save", `{"bookId":3,"title":"Dune","content":"c"}`, "Admin", domain.RoleAdmin)
		err := NewBookHandler(stub).Save(c)
		if httpStatus(err) != http.StatusConflict || httpMessage(err) != tc.want {
			t.Errorf("%v: expected 409 %q, got %v", tc.err, tc.want, err)
		}
	}
}

func TestBookHandler_Save_RequiresPrincipal(t *testing.T) {
	handler := NewBookHandler(&stubBookService{})
	c, _ := newContext(http.MethodPost, "/book/save", `{"bookId":1,"title":"t","content":"c"}`, "")
	if err := handler.Save(c); httpStatus(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestBookHandler_AllBooks(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubBookService{
		listFn: func(ctx context.Context) ([]domain.Book, error) {
			return []domain.Book{{
				ID: 1, Title: "Dune", Content: "Spice", AuthorUsername: "Admin",
				Reviews: []domain.Review{{ReviewerUsername: "reader", Rating: 4, Comment: "good", Timestamp: ts}},
			}}, nil
		},
	}

	c, rec := newContext(http.MethodGet, "/book/all-books", "", "reader", domain.RoleUser)
	if err := NewBookHandler(stub).AllBooks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["bookId"] != float64(1) || resp[0]["authorUsername"] != "Admin" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	reviews, ok := resp[0]["reviews"].([]any)
	if !ok || len(reviews) != 1 {
		t.Fatalf("expected nested reviews, got %+v", resp[0]["reviews"])
	}
	if r := reviews[0].(map[string]any); r["reviewerUsername"] != "reader" || r["rating"] != float64(4) {
		t.Fatalf("unexpected review: %+v", r)
	}
}

func TestBookHandler_Search(t *testing.T) {
	var got string
	stub := &stubBookService{
		searchFn: func(ctx context.Context, keyword string) ([]domain.Book, error) {
			got = keyword
			return []domain.Book{}, nil
		},
	}
	handler := NewBookHandler(stub)

	c, rec := newContext(http.MethodGet, "/book/search?keyword=dun", "", "reader", domain.RoleUser)
	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "dun" || rec.Code != http.StatusOK {
		t.Fatalf("unexpected call: keyword=%q code=%d", got, rec.Code)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty json array, got %q", rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/book/search", "", "reader", domain.RoleUser)
	if err := handler.Search(c); httpStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without keyword, got %v", err)
	}
}

func TestBookHandler_Top(t *testing.T) {
	var gotLimit int
	stub := &stubBookService{
		topFn: func(ctx context.Context, limit int) ([]domain.Book, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	handler := NewBookHandler(stub)

	c, _ := newContext(http.MethodGet, "/book/top?limit=3", "", "reader", domain.RoleUser)
	if err := handler.Top(c); err != nil || gotLimit != 3 {
		t.Fatalf("expected limit 3, got %d (%v)", gotLimit, err)
	}

	c, _ = newContext(http.MethodGet, "/book/top", "", "reader", domain.RoleUser)
	if err := handler.Top(c); err != nil || gotLimit != 0 {
		t.Fatalf("expected default limit, got %d (%v)", gotLimit, err)
	}

	for _, bad := range []string{"abc", "0", "-2"} {
		c, _ = newContext(http.MethodGet, "/book/top?limit="+bad, "", "reader", domain.RoleUser)
		if err := handler.Top(c); httpStatus(err) != http.StatusBadRequest {
			t.Errorf("limit %q: expected 400, got %v", bad, err)
		}
	}
}
