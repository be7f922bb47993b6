package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/duckbin/internal/ratelimit"
)

// RegisterRoutes registers the snippet and catalog routes with per-endpoint rate limit configuration.
func RegisterRoutes(api huma.API, snippets *SnippetHandler) {
	// POST /snippets - stricter limits for writes that allocate slugs
	huma.Register(api, huma.Operation{
		OperationID:   "create-snippet",
		Method:        http.MethodPost,
		Path:          "/snippets",
		Summary:       "Create snippet",
		Description:   "Stores a snippet under a new random 7-character slug.",
		Tags:          []string{"Snippets"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: ratelimit.CreateLimits()},
		},
	}, snippets.CreateSnippet)

	huma.Register(api, huma.Operation{
		OperationID: "list-snippets",
		Method:      http.MethodGet,
		Path:        "/snippets",
		Summary:     "List snippets",
		Description: "Lists snippets newest first, optionally filtered by language or a search term.",
		Tags:        []string{"Snippets"},
	}, snippets.ListSnippets)

	huma.Register(api, huma.Operation{
		OperationID: "get-snippet",
		Method:      http.MethodGet,
		Path:        "/snippets/{slug}",
		Summary:     "Get snippet",
		Tags:        []string{"Snippets"},
	}, snippets.GetSnippet)

	huma.Register(api, huma.Operation{
		OperationID: "update-snippet",
		Method:      http.MethodPut,
		Path:        "/snippets/{slug}",
		Summary:     "Update snippet",
		Description: "Applies the provided fields; omitted fields are left unchanged.",
		Tags:        []string{"Snippets"},
	}, snippets.UpdateSnippet)

	huma.Register(api, huma.Operation{
		OperationID: "delete-snippet",
		Method:      http.MethodDelete,
		Path:        "/snippets/{slug}",
		Summary:     "Delete snippet",
		Tags:        []string{"Snippets"},
	}, snippets.DeleteSnippet)

	huma.Register(api, huma.Operation{
		OperationID: "list-languages",
		Method:      http.MethodGet,
		Path:        "/languages",
		Summary:     "List languages",
		Tags:        []string{"Catalog"},
	}, ListLanguages)

	huma.Register(api, huma.Operation{
		OperationID: "list-themes",
		Method:      http.MethodGet,
		Path:        "/themes",
		Summary:     "List themes",
		Tags:        []string{"Catalog"},
	}, ListThemes)
}

// RegisterImportRoutes registers the GitHub import routes. Every call may hit
// the GitHub API, so they are limited per client on top of the outbound budget.
func RegisterImportRoutes(api huma.API, imports *ImportHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-github-files",
		Method:      http.MethodGet,
		Path:        "/import/github",
		Summary:     "Browse a GitHub repository",
		Tags:        []string{"Import"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: ratelimit.ImportLimits()},
		},
	}, imports.ListFiles)

	huma.Register(api, huma.Operation{
		OperationID: "fetch-github-file",
		Method:      http.MethodGet,
		Path:        "/import/github/file",
		Summary:     "Fetch a file from a GitHub repository",
		Tags:        []string{"Import"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: ratelimit.ImportLimits()},
		},
	}, imports.FetchFile)
}
