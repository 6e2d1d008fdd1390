// @title                       Bookstore API
// @version                     1.0
// @description                 Accounts, books and reviews with JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/api"
	"github.com/bookstore/bookstore-api/internal/api/handler"
	"github.com/bookstore/bookstore-api/internal/core/domain"
	"github.com/bookstore/bookstore-api/internal/core/ports"
	"github.com/bookstore/bookstore-api/internal/core/service"
	"github.com/bookstore/bookstore-api/internal/infrastructure/db"
	redisstore "github.com/bookstore/bookstore-api/internal/infrastructure/db/redis"
	"github.com/bookstore/bookstore-api/internal/infrastructure/queue"
	"github.com/bookstore/bookstore-api/internal/pkg/config"
	"github.com/bookstore/bookstore-api/pkg/logger"
)

func main() {
	ctx := context.Background()

	// 1. Configuration & logging
	cfg := config.MustLoad(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "bookstore-api",
		Env:     cfg.Env,
	})

	// 2. Persistence
	store, err := db.Open(ctx, db.Config{
		Driver:   cfg.Store.Driver,
		MongoURI: cfg.Store.MongoURI,
		MongoDB:  cfg.Store.MongoDB,
		SQLDSN:   cfg.Store.SQLDSN,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	log.Info().Str("driver", store.Name()).Msg("store ready")

	health := []handler.Dependency{{Name: store.Name(), Pinger: store}}

	// 3. Notification transport: Redis when configured, log-only otherwise
	var (
		sender ports.NotificationSender = queue.LogSender{}
		rdb    *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		publisher := redisstore.NewPublisher(rdb, cfg.Notifications.Channel)
		sender = publisher
		health = append(health, handler.Dependency{Name: "redis", Pinger: publisher})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("publishing notifications to redis")
	}

	// 4. Background notification workers
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()

	delay := cfg.Notifications.Delay
	if delay == 0 {
		delay = -1
	}
	dispatcher := queue.NewDispatcher(queue.Config{
		Workers: cfg.Notifications.Workers,
		Buffer:  cfg.Notifications.Buffer,
		Delay:   delay,
	}, sender, log)
	dispatcher.Start(workerCtx)

	// 5. Services
	tokens := service.NewJWTIssuer(service.TokenConfig{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.JWTTTL})
	accounts := service.NewAccountService(
		store.Users,
		store.Roles,
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		service.RoleConfig{AdminRole: domain.RoleAdmin, DefaultRole: domain.RoleUser},
		log,
	)
	books := service.NewBookService(store.Books, store.Users, log)
	reviews := service.NewReviewService(store.Reviews, store.Books, store.Users, dispatcher, log)

	if cfg.Seed.Enabled {
		seeds := []service.SeedAccount{
			{Username: cfg.Seed.AdminUsername, Password: cfg.Seed.AdminPassword, Role: domain.RoleAdmin},
			{Username: cfg.Seed.UserUsername, Password: cfg.Seed.UserPassword, Role: domain.RoleUser},
		}
		if err := service.SeedAccounts(ctx, accounts, seeds, log); err != nil {
			log.Fatal().Err(err).Msg("failed to seed default accounts")
		}
	}

	// 6. Router & HTTP server
	router := api.NewRouter(api.Deps{
		Accounts: accounts,
		Books:    books,
		Reviews:  reviews,
		Tokens:   tokens,
		Health:   health,
		Log:      log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.Port).Msg("could not listen")
		}
	}()

	<-stop
	log.Info().Msg("shutting down server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	closeAll(shutdownCtx, log, store, rdb)
	log.Info().Msg("server and workers stopped")
}

func closeAll(ctx context.Context, log zerolog.Logger, store *db.Store, rdb *goredis.Client) {
	if err := store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis")
		}
	}
}
