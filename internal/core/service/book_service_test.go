package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

func seededUsers(names ...string) *stubUserRepo {
	repo := newStubUserRepo()
	for _, n := range names {
		repo.users[n] = &domain.User{ID: n, Username: n, Roles: []string{domain.RoleUser}}
	}
	return repo
}

func TestBookService_SaveBook_Success(t *testing.T) {
	books := newStubBookRepo()
	svc := NewBookService(books, seededUsers("admin"), zerolog.Nop())

	book, err := svc.SaveBook(context.Background(), ports.SaveBookInput{
		BookID: 1, Title: "Dune", Content: "Spice.", AuthorUsername: "admin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.ID != 1 || book.AuthorUsername != "admin" {
		t.Fatalf("unexpected book: %+v", book)
	}
	if _, ok := books.books[1]; !ok {
		t.Fatalf("expected book to be persisted")
	}
}

func TestBookService_SaveBook_UnknownAuthor(t *testing.T) {
	svc := NewBookService(newStubBookRepo(), seededUsers(), zerolog.Nop())

	_, err := svc.SaveBook(context.Background(), ports.SaveBookInput{BookID: 1, Title: "Dune", Content: "x", AuthorUsername: "ghost"})
	if !errors.Is(err, domain.ErrAuthorNotFound) {
		t.Fatalf("expected ErrAuthorNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("expected username in message, got %q", err.Error())
	}
}

func TestBookService_SaveBook_DuplicateTitle(t *testing.T) {
	books := newStubBookRepo()
	svc := NewBookService(books, seededUsers("admin", "other"), zerolog.Nop())
	ctx := context.Background()

	_, _ = svc.SaveBook(ctx, ports.SaveBookInput{BookID: 1, Title: "Dune", Content: "x", AuthorUsername: "admin"})

	_, err := svc.SaveBook(ctx, ports.SaveBookInput{BookID: 2, Title: "Dune", Content: "y", AuthorUsername: "admin"})
	if !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}

	// A different author may reuse the title.
	if _, err := svc.SaveBook(ctx, ports.SaveBookInput{BookID: 3, Title: "Dune", Content: "z", AuthorUsername: "other"}); err != nil {
		t.Fatalf("expected other author to publish same title, got %v", err)
	}
}

func TestBookService_SaveBook_DuplicateID(t *testing.T) {
	books := newStubBookRepo()
	svc := NewBookService(books, seededUsers("admin"), zerolog.Nop())
	ctx := context.Background()

	_, _ = svc.SaveBook(ctx, ports.SaveBookInput{BookID: 7, Title: "A", Content: "x", AuthorUsername: "admin"})
	_, err := svc.SaveBook(ctx, ports.SaveBookInput{BookID: 7, Title: "B", Content: "y", AuthorUsername: "admin"})
	if !errors.Is(err, domain.ErrBookExists) {
		t.Fatalf("expected ErrBookExists, got %v", err)
	}
}

func TestBookService_SearchBooks(t *testing.T) {
	books := newStubBookRepo()
	books.books[1] = &domain.Book{ID: 1, Title: "The Go Programming Language"}
	books.books[2] = &domain.Book{ID: 2, Title: "Rust in Action"}
	svc := NewBookService(books, seededUsers(), zerolog.Nop())

	got, err := svc.SearchBooks(context.Background(), "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected search result: %+v", got)
	}
}

func TestBookService_TopBooks_Limit(t *testing.T) {
	books := newStubBookRepo()
	svc := NewBookService(books, seededUsers(), zerolog.Nop())
	ctx := context.Background()

	cases := []struct {
		in, want int
	}{
		{0, DefaultTopLimit},
		{-3, DefaultTopLimit},
		{5, 5},
		{1000, MaxTopLimit},
	}
	for _, tc := range cases {
		if _, err := svc.TopBooks(ctx, tc.in); err != nil {
			t.Fatalf("TopBooks(%d): %v", tc.in, err)
		}
		if books.lastLimit != tc.want {
			t.Errorf("TopBooks(%d) used limit %d, want %d", tc.in, books.lastLimit, tc.want)
		}
	}
}
