package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

type stubAccountService struct {
	signupFn func(ctx context.Context, in ports.SignupInput) (*domain.User, error)
	loginFn  func(ctx context.Context, username, password string) (string, error)
	deleteFn func(ctx context.Context, username string) (int64, error)
}

func (s *stubAccountService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAccountService) Delete(ctx context.Context, username string) (int64, error) {
	return s.deleteFn(ctx, username)
}

func (s *stubAccountService) LoadPrincipal(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrUserNotFound
}

type stubBookService struct {
	saveFn   func(ctx context.Context, in ports.SaveBookInput) (*domain.Book, error)
	listFn   func(ctx context.Context) ([]domain.Book, error)
	searchFn func(ctx context.Context, keyword string) ([]domain.Book, error)
	topFn    func(ctx context.Context, limit int) ([]domain.Book, error)
}

func (s *stubBookService) SaveBook(ctx context.Context, in ports.SaveBookInput) (*domain.Book, error) {
	return s.saveFn(ctx, in)
}

func (s *stubBookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.listFn(ctx)
}

func (s *stubBookService) SearchBooks(ctx context.Context, keyword string) ([]domain.Book, error) {
	return s.searchFn(ctx, keyword)
}

func (s *stubBookService) TopBooks(ctx context.Context, limit int) ([]domain.Book, error) {
	return s.topFn(ctx, limit)
}

type stubReviewService struct {
	writeFn func(ctx context.Context, in ports.WriteReviewInput) (*domain.Review, error)
	listFn  func(ctx context.Context, bookID int64) ([]domain.Review, error)
}

func (s *stubReviewService) WriteReview(ctx context.Context, in ports.WriteReviewInput) (*domain.Review, error) {
	return s.writeFn(ctx, in)
}

func (s *stubReviewService) ListReviews(ctx context.Context, bookID int64) ([]domain.Review, error) {
	return s.listFn(ctx, bookID)
}

// newContext builds an echo context for a JSON request. A non-empty username
// authenticates the request as that user.
func newContext(method, target, body, username string, authorities ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if username != "" {
		p := &domain.Principal{Username: username, Authorities: authorities}
		req = req.WithContext(domain.ContextWithPrincipal(req.Context(), p))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func httpStatus(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return 0
}

func httpMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if s, ok := he.Message.(string); ok {
			return s
		}
	}
	return ""
}

func validationMessages(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages
	}
	return nil
}

func containsMessage(msgs []string, want string) bool {
	for _, m := range msgs {
		if m == want {
			return true
		}
	}
	return false
}
