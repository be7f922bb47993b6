package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/duckbin/internal/githubimport"
	"go.uber.org/zap"
)

// Importer reads files from GitHub repositories.
type Importer interface {
	List(ctx context.Context, repo githubimport.Repository) (*githubimport.Listing, error)
	Fetch(ctx context.Context, repo githubimport.Repository) (*githubimport.File, error)
}

// ImportHandler browses GitHub repositories and fetches files for new snippets.
type ImportHandler struct {
	importer Importer
	errs     errorMapper
}

func NewImportHandler(importer Importer, exposeInternal bool, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{
		importer: importer,
		errs:     errorMapper{exposeInternal: exposeInternal, logger: logger},
	}
}

// ImportRequest points at a repository and optionally a path inside it.
type ImportRequest struct {
	URL  string `doc:"Repository URL"             example:"https://github.com/golang/example" query:"url"  required:"true"`
	Path string `doc:"Path inside the repository" example:"hello"                             query:"path"`
}

// ListingResponse is a repository directory listing.
type ListingResponse struct {
	Body *githubimport.Listing
}

// FileResponse is a fetched repository file.
type FileResponse struct {
	Body *githubimport.File
}

func (h *ImportHandler) ListFiles(ctx context.Context, req *ImportRequest) (*ListingResponse, error) {
	repo, err := githubimport.ParseURL(req.URL)
	if err != nil {
		return nil, h.toHTTP(err, "list repository")
	}

	listing, err := h.importer.List(ctx, repo.At(req.Path))
	if err != nil {
		return nil, h.toHTTP(err, "list repository")
	}

	return &ListingResponse{Body: listing}, nil
}

func (h *ImportHandler) FetchFile(ctx context.Context, req *ImportRequest) (*FileResponse, error) {
	repo, err := githubimport.ParseURL(req.URL)
	if err != nil {
		return nil, h.toHTTP(err, "fetch file")
	}

	repo = repo.At(req.Path)
	if repo.Path == "" {
		return nil, huma.Error400BadRequest("path is required", &huma.ErrorDetail{
			Message:  "path is required",
			Location: "query.path",
		})
	}

	file, err := h.importer.Fetch(ctx, repo)
	if err != nil {
		return nil, h.toHTTP(err, "fetch file")
	}

	return &FileResponse{Body: file}, nil
}

func (h *ImportHandler) toHTTP(err error, action string) error {
	switch {
	case errors.Is(err, githubimport.ErrInvalidURL),
		errors.Is(err, githubimport.ErrNotAFile),
		errors.Is(err, githubimport.ErrTooLarge),
		errors.Is(err, githubimport.ErrBinary):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, githubimport.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, githubimport.ErrBudgetExhausted):
		return huma.Error429TooManyRequests(err.Error())
	case errors.Is(err, githubimport.ErrUpstream):
		h.errs.logger.Warn("GitHub request failed", zap.Error(err))

		return huma.Error502BadGateway(err.Error())
	}

	return h.errs.internal(err, action)
}
