package handlers

import (
	"context"
	"fmt"

	"github.com/serroba/duckbin/internal/activity"
	"github.com/serroba/duckbin/internal/snippet"
	"go.uber.org/zap"
)

const (
	msgCreated = "Code snippet created successfully"
	msgUpdated = "Code snippet updated successfully"
	msgDeleted = "Code snippet deleted successfully"
)

// ActivityPublisher receives snippet activity. Implementations must not block
// on or fail the request.
type ActivityPublisher interface {
	Publish(ctx context.Context, kind activity.Kind, s *snippet.Snippet)
}

// SnippetHandler handles snippet CRUD operations.
type SnippetHandler struct {
	service   *snippet.Service
	publisher ActivityPublisher
	baseURL   string
	errs      errorMapper
}

// NewSnippetHandler creates a snippet handler. exposeInternal attaches the
// underlying error to 500 responses and must be false in production.
func NewSnippetHandler(
	service *snippet.Service,
	publisher ActivityPublisher,
	baseURL string,
	exposeInternal bool,
	logger *zap.Logger,
) *SnippetHandler {
	return &SnippetHandler{
		service:   service,
		publisher: publisher,
		baseURL:   baseURL,
		errs:      errorMapper{exposeInternal: exposeInternal, logger: logger},
	}
}

func (h *SnippetHandler) CreateSnippet(ctx context.Context, req *CreateSnippetRequest) (*CreateSnippetResponse, error) {
	created, err := h.service.Create(ctx, snippet.Input{
		Title:    req.Body.Title,
		Code:     req.Body.Code,
		Language: req.Body.Language,
		Theme:    req.Body.Theme,
	})
	if err != nil {
		return nil, h.errs.toHTTP(err, "create snippet")
	}

	h.publisher.Publish(ctx, activity.KindCreated, created)

	resp := &CreateSnippetResponse{Body: h.envelope(created, msgCreated)}
	resp.Location = resp.Body.URL

	return resp, nil
}

func (h *SnippetHandler) GetSnippet(ctx context.Context, req *SlugRequest) (*SnippetResponse, error) {
	found, err := h.service.Get(ctx, req.Slug)
	if err != nil {
		return nil, h.errs.toHTTP(err, "fetch snippet")
	}

	h.publisher.Publish(ctx, activity.KindViewed, found)

	return &SnippetResponse{Body: h.envelope(found, "")}, nil
}

func (h *SnippetHandler) UpdateSnippet(ctx context.Context, req *UpdateSnippetRequest) (*SnippetResponse, error) {
	updated, err := h.service.Update(ctx, req.Slug, snippet.Patch{
		Title:    req.Body.Title,
		Code:     req.Body.Code,
		Language: req.Body.Language,
		Theme:    req.Body.Theme,
	})
	if err != nil {
		return nil, h.errs.toHTTP(err, "update snippet")
	}

	h.publisher.Publish(ctx, activity.KindUpdated, updated)

	return &SnippetResponse{Body: h.envelope(updated, msgUpdated)}, nil
}

func (h *SnippetHandler) DeleteSnippet(ctx context.Context, req *SlugRequest) (*MessageResponse, error) {
	if err := h.service.Delete(ctx, req.Slug); err != nil {
		return nil, h.errs.toHTTP(err, "delete snippet")
	}

	h.publisher.Publish(ctx, activity.KindDeleted, &snippet.Snippet{Slug: snippet.Slug(req.Slug)})

	resp := &MessageResponse{}
	resp.Body.Message = msgDeleted

	return resp, nil
}

func (h *SnippetHandler) ListSnippets(ctx context.Context, req *ListSnippetsRequest) (*ListSnippetsResponse, error) {
	page, err := h.service.List(ctx,
		snippet.Filter{Language: req.Language, Search: req.Search},
		snippet.PageRequest{Page: req.Page, Limit: req.Limit},
	)
	if err != nil {
		return nil, h.errs.toHTTP(err, "list snippets")
	}

	resp := &ListSnippetsResponse{}
	resp.Body.Items = make([]SnippetBody, 0, len(page.Items))

	for i := range page.Items {
		resp.Body.Items = append(resp.Body.Items, toSnippetBody(&page.Items[i]))
	}

	resp.Body.Pagination = Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	}

	return resp, nil
}

func (h *SnippetHandler) envelope(s *snippet.Snippet, message string) SnippetEnvelope {
	return SnippetEnvelope{
		Message: message,
		Snippet: toSnippetBody(s),
		URL:     fmt.Sprintf("%s/%s", h.baseURL, s.Slug),
	}
}
