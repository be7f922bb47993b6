package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/duckbin/internal/activity"
)

// RequestMeta is a middleware that adds client IP, user-agent, and referrer to the request context.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := activity.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		next(huma.WithContext(ctx, activity.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}
