// Package storage elige el backend del catálogo según la config.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption-catalog/internal/adapters/storage/memory"
	"pet-adoption-catalog/internal/adapters/storage/postgres"
	"pet-adoption-catalog/internal/adapters/storage/redis"
	"pet-adoption-catalog/internal/adapters/storage/sqlite"
	"pet-adoption-catalog/internal/config"
	"pet-adoption-catalog/internal/domain/animals"

	backend "github.com/redis/go-redis/v9"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Backend es el provider abierto más su cierre (pool, archivo o cliente).
type Backend struct {
	Provider animals.Provider
	Driver   string

	close func() error
}

func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// Open abre el backend pedido. memory no necesita nada externo.
func Open(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case "", "memory":
		return &Backend{Provider: memory.NewAnimalRepo(), Driver: "memory"}, nil

	case "postgres":
		db, err := postgres.Open(cfg.DSN, postgres.PoolOptions{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		return &Backend{Provider: postgres.NewAnimalsRepo(db), Driver: driver, close: db.Close}, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Backend{Provider: sqlite.NewAnimalsRepo(db), Driver: driver, close: db.Close}, nil

	case "redis":
		client := backend.NewClient(&backend.Options{Addr: cfg.RedisAddr})

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		repo := redis.NewFromClient(client, redis.WithPrefix(cfg.RedisPrefix))
		return &Backend{Provider: repo, Driver: driver, close: client.Close}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
