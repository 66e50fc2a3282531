// @title       Event Vault Racing API
// @version     1.0
// @description Races and users with cookie-based session auth.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/eventvault/racing-api/internal/api"
	"github.com/eventvault/racing-api/internal/api/handler"
	"github.com/eventvault/racing-api/internal/api/session"
	"github.com/eventvault/racing-api/internal/core/policy"
	"github.com/eventvault/racing-api/internal/core/ports"
	"github.com/eventvault/racing-api/internal/core/service"
	"github.com/eventvault/racing-api/internal/infrastructure/db/mongo"
	"github.com/eventvault/racing-api/internal/infrastructure/db/postgres"
	"github.com/eventvault/racing-api/internal/infrastructure/db/redis"
	"github.com/eventvault/racing-api/internal/pkg/config"
	"github.com/eventvault/racing-api/pkg/logger"
)

const tokenTTL = 24 * time.Hour

type stores struct {
	users  ports.UserRepository
	races  ports.RaceRepository
	health map[string]handler.Pinger
	close  []func(context.Context) error
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "racing-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open store")
	}

	var cache ports.UserCache
	if cfg.CacheEnabled() {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		cache = redis.NewUserCache(rdb, cfg.Redis.TTL)
		st.health["redis"] = handler.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		st.close = append(st.close, func(context.Context) error { return rdb.Close() })
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("user cache enabled")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, tokenTTL)
	sessions := session.NewManager(tokens, cfg.JWTCookie, tokenTTL, cfg.IsProduction())

	e := api.NewRouter(api.Deps{
		Auth:       service.NewAuthService(st.users, tokens, log),
		Users:      service.NewUserService(st.users, cache, log),
		Races:      service.NewRaceService(st.races, log),
		Sessions:   sessions,
		Policy:     policy.New(),
		Health:     st.health,
		Log:        log,
		Production: cfg.IsProduction(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	for _, closeFn := range st.close {
		if err := closeFn(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("failed to close store")
		}
	}
	log.Info().Msg("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &stores{
			users: mongo.NewUserRepository(db),
			races: mongo.NewRaceRepository(db),
			health: map[string]handler.Pinger{
				"mongo": handler.PingerFunc(func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }),
			},
			close: []func(context.Context) error{client.Disconnect},
		}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, err
		}
		log.Info().Int("max_conns", cfg.Postgres.MaxConns).Msg("connected to postgres")
		return &stores{
			users: postgres.NewUserRepository(db),
			races: postgres.NewRaceRepository(db),
			health: map[string]handler.Pinger{
				"postgres": handler.PingerFunc(db.PingContext),
			},
			close: []func(context.Context) error{func(context.Context) error { return db.Close() }},
		}, nil
	}
}
