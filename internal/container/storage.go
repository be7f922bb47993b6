package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/do"
	"github.com/serroba/duckbin/internal/githubimport"
	"github.com/serroba/duckbin/internal/health"
	"github.com/serroba/duckbin/internal/ratelimit"
	"github.com/serroba/duckbin/internal/snippet"
	"github.com/serroba/duckbin/internal/store"
	"go.uber.org/zap"
)

// GitHub allows 5000 requests per hour with a token and 60 without.
const (
	githubAuthenticatedBudget = 5000
	githubAnonymousBudget     = 60
	githubTimeout             = 15 * time.Second
)

// SQLitePackage provides the SQLite snippet store.
func SQLitePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.SQLiteStore, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		return store.OpenSQLite(ctx, opts.SQLitePath)
	})
}

// RepositoryPackage provides the configured snippet.Repository, the
// dependency health checks and the snippet service.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.PostgresStore, error) {
		conn := do.MustInvoke[*PostgresConn](i)
		pg := store.NewPostgresStore(conn.Pool)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}

		return pg, nil
	})

	do.Provide(injector, func(i *do.Injector) (snippet.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		var (
			repo snippet.Repository
			err  error
		)

		switch opts.Store {
		case StoreSQLite:
			repo, err = do.Invoke[*store.SQLiteStore](i)
		case StorePostgres:
			repo, err = do.Invoke[*store.PostgresStore](i)
		default:
			repo = store.NewMemoryStore()
		}

		if err != nil {
			return nil, err
		}

		if !opts.UseRedis() {
			return repo, nil
		}

		ttl, err := opts.CacheDuration()
		if err != nil {
			return nil, err
		}

		conn := do.MustInvoke[*RedisConn](i)

		return store.NewRedisCacheRepository(repo, conn.Client, ttl, do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (map[string]health.Checker, error) {
		opts := do.MustInvoke[*Options](i)
		checks := map[string]health.Checker{}

		switch opts.Store {
		case StoreSQLite:
			checks[StoreSQLite] = do.MustInvoke[*store.SQLiteStore](i)
		case StorePostgres:
			checks[StorePostgres] = do.MustInvoke[*store.PostgresStore](i)
		}

		if opts.UseRedis() {
			checks["redis"] = health.NewRedisChecker(do.MustInvoke[*RedisConn](i).Client)
		}

		return checks, nil
	})

	do.Provide(injector, func(i *do.Injector) (*snippet.Service, error) {
		repo := do.MustInvoke[snippet.Repository](i)

		draw, err := snippet.NewRandomSlugDrawer()
		if err != nil {
			return nil, fmt.Errorf("creating slug drawer: %w", err)
		}

		return snippet.NewService(repo, snippet.NewSlugGenerator(repo, draw), do.MustInvoke[*zap.Logger](i)), nil
	})
}

// RateLimitPackage provides the request rate limiter. Counters live in
// Redis when configured so that every instance shares them.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		if do.MustInvoke[*Options](i).UseRedis() {
			return store.NewRateLimitRedisStore(do.MustInvoke[*RedisConn](i).Client), nil
		}

		return store.NewRateLimitMemoryStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.DefaultPolicy()), nil
	})
}

// ImportPackage provides the GitHub import client with an outbound budget
// matching GitHub's own hourly allowance.
func ImportPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*githubimport.Client, error) {
		opts := do.MustInvoke[*Options](i)

		budget := int64(githubAnonymousBudget)
		if opts.GitHubToken != "" {
			budget = githubAuthenticatedBudget
		}

		limiter := ratelimit.NewSlidingWindowLimiter(do.MustInvoke[ratelimit.Store](i), budget, time.Hour)

		return githubimport.NewClient(
			&http.Client{Timeout: githubTimeout},
			githubimport.DefaultBaseURL,
			opts.GitHubToken,
			limiter,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}
