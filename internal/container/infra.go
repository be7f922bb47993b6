package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// RedisConn owns the shared Redis client.
type RedisConn struct {
	*redis.Client
}

func (c *RedisConn) Shutdown() error {
	return c.Close()
}

// PostgresConn owns the shared PostgreSQL pool.
type PostgresConn struct {
	*pgxpool.Pool
}

func (c *PostgresConn) Shutdown() error {
	c.Close()

	return nil
}

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		var (
			logger *zap.Logger
			err    error
		)

		if opts.LogFormat == "json" {
			logger, err = zap.NewProduction()
		} else {
			logger, err = zap.NewDevelopment()
		}

		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}

		return logger.With(zap.String("env", opts.Env)), nil
	})
}

// RedisPackage provides the Redis connection. Only invoke it when Options.UseRedis.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisConn, error) {
		opts := do.MustInvoke[*Options](i)

		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()

			return nil, fmt.Errorf("connecting to redis at %s: %w", opts.RedisAddr, err)
		}

		return &RedisConn{Client: client}, nil
	})
}

// PostgresPackage provides the PostgreSQL pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*PostgresConn, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.PostgresURL())
		if err != nil {
			return nil, fmt.Errorf("creating postgres pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		return &PostgresConn{Pool: pool}, nil
	})
}
