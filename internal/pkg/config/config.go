package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=15s"`

	Auth          AuthConfig
	Store         StoreConfig
	Redis         RedisConfig
	Notifications NotificationConfig
	Seed          SeedConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET,  required"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=24h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

// StoreConfig selects the persistence backend: mongo, postgres or sqlite.
type StoreConfig struct {
	Driver   string `env:"STORE_DRIVER, default=mongo"`
	MongoURI string `env:"MONGO_URI,    default=mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB,     default=bookstore"`
	SQLDSN   string `env:"SQL_DSN"`
}

// RedisConfig is optional; an empty Addr disables Redis entirely.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type NotificationConfig struct {
	Channel string        `env:"NOTIFY_CHANNEL, default=bookstore:notifications"`
	Workers int           `env:"NOTIFY_WORKERS, default=4"`
	Buffer  int           `env:"NOTIFY_BUFFER,  default=256"`
	Delay   time.Duration `env:"NOTIFY_DELAY,   default=2s"`
}

type SeedConfig struct {
	Enabled       bool   `env:"SEED_USERS,          default=true"`
	AdminUsername string `env:"SEED_ADMIN_USERNAME, default=Admin"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD, default=1234567"`
	UserUsername  string `env:"SEED_USER_USERNAME,  default=simpleuser"`
	UserPassword  string `env:"SEED_USER_PASSWORD,  default=1234567"`
}

// Load reads a .env file when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return Process(ctx, envconfig.OsLookuper())
}

// Process builds a Config from the given lookuper.
func Process(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Auth.JWTTTL <= 0 {
		return nil, fmt.Errorf("config: JWT_TTL must be positive, got %s", cfg.Auth.JWTTTL)
	}
	return &cfg, nil
}

// MustLoad is Load for entrypoints that cannot continue without config.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}
