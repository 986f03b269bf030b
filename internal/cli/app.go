package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/game-picker/internal/config"
	"github.com/Sternrassler/game-picker/pkg/cache"
	"github.com/Sternrassler/game-picker/pkg/catalog"
	"github.com/Sternrassler/game-picker/pkg/recommend"
	"github.com/Sternrassler/game-picker/pkg/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app holds the wired service and the resources it owns.
type app struct {
	engine  *recommend.Engine
	backend cache.Backend
	store   store.Store

	checks  []func(ctx context.Context) error
	closers []func()
}

// ready runs every readiness check.
func (a *app) ready(ctx context.Context) error {
	var errs []error
	for _, check := range a.checks {
		if err := check(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires cache, store, catalog and engine from cfg.
func buildApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	backend, err := buildCache(ctx, cfg.Cache, a)
	if err != nil {
		a.close()
		return nil, err
	}
	a.backend = backend

	st, err := buildStore(ctx, cfg.Store, a, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = st

	client, err := catalog.New(catalogConfig(cfg.Catalog))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create catalog client: %w", err)
	}

	engine, err := recommend.New(recommend.Config{
		Catalog: client,
		Store:   st,
		Cache:   cache.NewGateway(backend, cfg.Cache.KeyPrefix, logger),
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.engine = engine

	logger.Info().
		Str("cache", backend.Name()).
		Str("store", cfg.Store.Driver).
		Str("catalog", cfg.Catalog.BaseURL).
		Msg("Service wired")

	return a, nil
}

func catalogConfig(cfg config.CatalogConfig) catalog.Config {
	breaker := catalog.DefaultBreakerConfig()
	breaker.FailureThreshold = cfg.BreakerFailures
	if cfg.BreakerTimeout > 0 {
		breaker.Timeout = cfg.BreakerTimeout
	}

	return catalog.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Breaker:   breaker,
	}
}

func buildCache(ctx context.Context, cfg config.CacheConfig, a *app) (cache.Backend, error) {
	switch cfg.Driver {
	case config.CacheDriverNone:
		return cache.NoopBackend{}, nil

	case config.CacheDriverMemory:
		return cache.NewMemoryBackend(cfg.MemorySize), nil

	case config.CacheDriverRedis:
		opts, err := redisOptions(cfg)
		if err != nil {
			return nil, err
		}
		client := redis.NewClient(opts)
		a.closers = append(a.closers, func() { _ = client.Close() })

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.checks = append(a.checks, func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		})
		return cache.NewRedisBackend(client), nil

	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// redisOptions parses the redis URL and applies password and DB overrides.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB >= 0 {
		opts.DB = cfg.RedisDB
	}
	return opts, nil
}

func buildStore(ctx context.Context, cfg config.StoreConfig, a *app, logger zerolog.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		logger.Warn().Msg("Using in-memory history store; history is lost on restart")
		return store.NewMemoryStore(), nil

	case config.StoreDriverPostgres:
		if cfg.AutoMigrate {
			if err := migrateUp(cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}

		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		pg := store.NewPostgresStore(pool)
		a.checks = append(a.checks, func(ctx context.Context) error {
			if err := pg.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			return nil
		})
		return pg, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func migrateUp(databaseURL string) error {
	m, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	return m.Up()
}
