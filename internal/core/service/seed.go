package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
)

// SeedAccount describes a user created at startup when missing.
type SeedAccount struct {
	Username string
	Password string
	Email    string
	Role     string
}

// SeedAccounts signs up every account that does not exist yet. Existing
// usernames are left untouched.
func SeedAccounts(ctx context.Context, accounts ports.AccountService, seeds []SeedAccount, log zerolog.Logger) error {
	for _, sa := range seeds {
		if sa.Username == "" {
			continue
		}
		_, err := accounts.Signup(ctx, ports.SignupInput{
			Username: sa.Username,
			Password: sa.Password,
			Email:    sa.Email,
			RoleName: sa.Role,
		})
		switch {
		case err == nil:
			log.Info().Str("username", sa.Username).Msg("seeded account")
		case errors.Is(err, domain.ErrUserExists):
			log.Debug().Str("username", sa.Username).Msg("seed account already present")
		default:
			return err
		}
	}
	return nil
}
