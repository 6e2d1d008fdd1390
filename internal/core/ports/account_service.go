package ports

import (
	"context"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

// SignupInput is the DTO passed from the transport layer to AccountService.
type SignupInput struct {
	Username string
	Password string
	Email    string
	RoleName string
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenValidator checks bearer tokens presented by clients.
type TokenValidator interface {
	Validate(token string) error
	SubjectOf(token string) (string, error)
}

// TokenIssuer creates and verifies signed, time-limited bearer tokens.
type TokenIssuer interface {
	TokenValidator
	Issue(subject string) (string, error)
}

// PrincipalLoader resolves a username into a request principal.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, username string) (*domain.Principal, error)
}

type AccountService interface {
	PrincipalLoader
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Delete(ctx context.Context, username string) (int64, error)
}
