package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
	"github.com/bookstore/bookstore-api/internal/pkg/metrics"
)

// RoleConfig controls how the requested role name is normalized at signup:
// an input equal to AdminRole (case-insensitive) yields AdminRole, anything
// else yields DefaultRole.
type RoleConfig struct {
	AdminRole   string
	DefaultRole string
}

// AccountService implements signup, login, account removal and principal
// lookup.
type AccountService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	rc     RoleConfig
	log    zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	rc RoleConfig,
	log zerolog.Logger,
) *AccountService {
	if rc.AdminRole == "" {
		rc.AdminRole = domain.RoleAdmin
	}
	if rc.DefaultRole == "" {
		rc.DefaultRole = domain.RoleUser
	}
	return &AccountService{
		users:  users,
		roles:  roles,
		hasher: hasher,
		tokens: tokens,
		rc:     rc,
		log:    log,
	}
}

// NormalizeRole maps a requested role name onto the closed role set.
func (s *AccountService) NormalizeRole(name string) string {
	if strings.EqualFold(name, s.rc.AdminRole) {
		return s.rc.AdminRole
	}
	return s.rc.DefaultRole
}

// Signup hashes the password, resolves (or lazily creates) the role and
// stores the user. Username collisions surface as domain.ErrUserExists and
// never overwrite the existing account.
func (s *AccountService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	roleName := s.NormalizeRole(in.RoleName)

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	role, err := s.resolveRole(ctx, roleName)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("signup: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Roles:        []string{role.Name},
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			s.log.Info().Str("username", in.Username).Msg("signup rejected: username taken")
			return nil, domain.ErrUserExists
		}
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("signup: %w", err)
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("username", created.Username).Str("role", role.Name).Msg("user registered")
	return created, nil
}

// resolveRole finds the role by name, creating it on first use. A concurrent
// create is resolved by reading the winner's row.
func (s *AccountService) resolveRole(ctx context.Context, name string) (*domain.Role, error) {
	role, err := s.roles.FindByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, err
	}

	role, err = s.roles.Create(ctx, name)
	if errors.Is(err, domain.ErrRoleExists) {
		return s.roles.FindByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("role", name).Msg("role created")
	return role, nil
}

// Login verifies the credentials and issues a bearer token for the user.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return "", domain.ErrUserNotFound
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	principal := domain.NewPrincipal(user)
	token, err := s.tokens.Issue(principal.Username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

// Delete removes the user and returns how many rows went away. Deleting an
// unknown username is not an error.
func (s *AccountService) Delete(ctx context.Context, username string) (int64, error) {
	n, err := s.users.DeleteByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	if n > 0 {
		s.log.Info().Str("username", username).Msg("user deleted")
	}
	return n, nil
}

func (s *AccountService) LoadPrincipal(ctx context.Context, username string) (*domain.Principal, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return domain.NewPrincipal(user), nil
}
