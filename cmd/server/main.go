package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/serroba/duckbin/internal/container"
	"github.com/serroba/duckbin/internal/messaging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options) {
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.SQLitePackage(injector)
	container.RepositoryPackage(injector)
	container.RateLimitPackage(injector)
	container.ImportPackage(injector)
	container.PublisherGroupPackage(injector)
	container.ConsumerGroupPackage(injector)
	container.HTTPPackage(injector)
}

func newInjector(options *container.Options) *do.Injector {
	if err := options.Validate(); err != nil {
		panic(err)
	}

	injector := do.New()
	registerPackages(injector, options)

	return injector
}

// runMigrate creates the schema of the configured store and reports it to out.
func runMigrate(ctx context.Context, options *container.Options, out io.Writer) error {
	injector := newInjector(options)
	defer func() { _ = injector.Shutdown() }()

	if err := container.Migrate(ctx, injector); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "migrated %s store\n", options.Store)

	return err
}

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := newInjector(options)
		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Invoke API to trigger route registration
			_ = do.MustInvoke[huma.API](injector)

			// Without Redis nobody else reads activity, so log it in-process.
			if !options.UseRedis() {
				group := do.MustInvoke[*messaging.ConsumerGroup](injector)
				if err := group.Start(context.Background()); err != nil {
					logger.Fatal("failed to start activity consumers", zap.Error(err))
				}
			}

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("store", options.Store),
				zap.Bool("redis", options.UseRedis()),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Root().Use = "duckbin"

	cli.Root().AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the schema of the configured SQL store",
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			if err := runMigrate(cmd.Context(), options, cmd.OutOrStdout()); err != nil {
				cmd.PrintErrln(err)
				os.Exit(1)
			}
		}),
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document",
		Run: humacli.WithOptions(func(cmd *cobra.Command, _ []string, options *container.Options) {
			injector := newInjector(options)
			defer func() { _ = injector.Shutdown() }()

			doc, err := do.MustInvoke[huma.API](injector).OpenAPI().YAML()
			if err != nil {
				cmd.PrintErrln(err)

				return
			}

			cmd.Println(string(doc))
		}),
	})

	cli.Run()
}
