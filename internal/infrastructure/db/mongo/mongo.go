package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Repositories groups the Mongo-backed stores sharing one database.
type Repositories struct {
	Users   *UserRepository
	Roles   *RoleRepository
	Books   *BookRepository
	Reviews *ReviewRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(db),
		Roles:   NewRoleRepository(db),
		Books:   NewBookRepository(db),
		Reviews: NewReviewRepository(db),
	}
}

// EnsureIndexes creates the unique and lookup indexes every repository
// relies on. It is idempotent.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for name, ensure := range map[string]func(context.Context) error{
		"users":   r.Users.EnsureIndexes,
		"roles":   r.Roles.EnsureIndexes,
		"books":   r.Books.EnsureIndexes,
		"reviews": r.Reviews.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}
