package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/duckbin/internal/activity"
	"github.com/serroba/duckbin/internal/githubimport"
	"github.com/serroba/duckbin/internal/handlers"
	"github.com/serroba/duckbin/internal/health"
	"github.com/serroba/duckbin/internal/middleware"
	"github.com/serroba/duckbin/internal/ratelimit"
	"github.com/serroba/duckbin/internal/snippet"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		config := huma.DefaultConfig("duckbin", "1.0.0")
		config.Info.Description = "Share code snippets through short links."

		api := humachi.New(router, config)

		api.UseMiddleware(middleware.AccessLog(logger))
		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.PolicyRateLimiter(
			api,
			do.MustInvoke[*ratelimit.PolicyLimiter](i),
			ratelimit.NewOperationScopeResolver(),
			logger,
		))

		handlers.RegisterRoutes(api, handlers.NewSnippetHandler(
			do.MustInvoke[*snippet.Service](i),
			do.MustInvoke[*activity.Publisher](i),
			opts.PublicURL(),
			opts.ExposeInternalErrors(),
			logger,
		))

		handlers.RegisterImportRoutes(api, handlers.NewImportHandler(
			do.MustInvoke[*githubimport.Client](i),
			opts.ExposeInternalErrors(),
			logger,
		))

		health.RegisterRoutes(api, health.NewHandler(do.MustInvoke[map[string]health.Checker](i)))

		return api, nil
	})
}
