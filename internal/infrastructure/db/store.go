// Package db opens the configured persistence backend and exposes its
// repositories behind the core ports.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/ports"
	mongostore "github.com/bookstore/bookstore-api/internal/infrastructure/db/mongo"
	"github.com/bookstore/bookstore-api/internal/infrastructure/db/sqlstore"
)

const DriverMongo = "mongo"

type Config struct {
	Driver   string
	MongoURI string
	MongoDB  string
	SQLDSN   string
}

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Driver  string
	Users   ports.UserRepository
	Roles   ports.RoleRepository
	Books   ports.BookRepository
	Reviews ports.ReviewRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

func (s *Store) Name() string { return s.Driver }

func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Store) Close(ctx context.Context) error { return s.close(ctx) }

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case "", DriverMongo:
		return openMongo(ctx, cfg)
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
		return openSQL(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("db: unknown store driver %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg Config) (*Store, error) {
	client, database, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
	if err != nil {
		return nil, err
	}
	repos := mongostore.NewRepositories(database)
	if err := repos.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Store{
		Driver:  DriverMongo,
		Users:   repos.Users,
		Roles:   repos.Roles,
		Books:   repos.Books,
		Reviews: repos.Reviews,
		ping:    func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:   client.Disconnect,
	}, nil
}

func openSQL(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	s, err := sqlstore.Open(ctx, sqlstore.Config{Driver: cfg.Driver, DSN: cfg.SQLDSN}, log)
	if err != nil {
		return nil, err
	}
	return FromSQL(cfg.Driver, s), nil
}

// FromSQL wraps an already opened relational store.
func FromSQL(driver string, s *sqlstore.Store) *Store {
	return &Store{
		Driver:  driver,
		Users:   s.Users(),
		Roles:   s.Roles(),
		Books:   s.Books(),
		Reviews: s.Reviews(),
		ping:    s.Ping,
		close:   func(context.Context) error { return s.Close() },
	}
}
