package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"airport-cyber-crisis/internal/app"
	"airport-cyber-crisis/internal/config"
	"airport-cyber-crisis/internal/infra/memory"
	"airport-cyber-crisis/internal/infra/postgres"
	pgmigrations "airport-cyber-crisis/internal/infra/postgres/migrations"
	infraredis "airport-cyber-crisis/internal/infra/redis"
	"airport-cyber-crisis/internal/infra/sqlite"
	transport "airport-cyber-crisis/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// backend is the opened persistence layer plus what it needs to shut down.
type backend struct {
	storage      app.Storage
	sessions     app.SessionRepository
	dependencies map[string]transport.Pinger
	closers      []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects the storage selected by cfg.Storage.Backend.
// Postgres migrations are applied before the pool is opened.
func openBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{
		sessions:     memory.NewSessionStore(),
		dependencies: map[string]transport.Pinger{},
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		b.storage = memory.NewStorage()

	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.storage = store
		b.dependencies["sqlite"] = store
		b.closers = append(b.closers, func() { _ = store.Close() })

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		// Leaderboard and names never expire; the TTL only applies to session markers.
		store := infraredis.NewStorage(client, cfg.Redis.KeyPrefix, 0)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		b.storage = store
		b.sessions = infraredis.NewSessionStore(client, cfg.Redis.KeyPrefix, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
		b.dependencies["redis"] = store
		b.closers = append(b.closers, func() { _ = client.Close() })

	case config.BackendPostgres:
		if err := pgmigrations.Run(ctx, cfg.Postgres.URL); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := postgres.NewStorage(pool)
		b.storage = store
		b.dependencies["postgres"] = store
		b.closers = append(b.closers, pool.Close)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	log.Info().Str("backend", cfg.Storage.Backend).Msg("storage ready")
	return b, nil
}
