package ports

import (
	"context"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create stores a new user linked to the roles named in user.Roles, which
	// must already exist. A username collision returns domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// DeleteByUsername returns the number of users removed (0 or 1).
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// Create returns domain.ErrRoleExists when the name is taken.
	Create(ctx context.Context, name string) (*domain.Role, error)
}
