package snippet

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("snippet not found")
	ErrSlugTaken     = errors.New("slug already exists")
	ErrSlugExhausted = errors.New("unable to generate unique slug after maximum attempts")
	ErrValidation    = errors.New("validation failed")
)

// ValidationError is a client-caused error tied to one request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SlugChecker reports whether a slug is already in use.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug Slug) (bool, error)
}

// Repository persists snippets keyed by slug.
type Repository interface {
	SlugChecker

	// Insert stores a new snippet and fills in ID and timestamps.
	// Returns ErrSlugTaken if the slug is already stored.
	Insert(ctx context.Context, s *Snippet) error

	// GetBySlug returns ErrNotFound if no snippet has the slug.
	GetBySlug(ctx context.Context, slug Slug) (*Snippet, error)

	// UpdateBySlug applies the patch and refreshes UpdatedAt.
	// Returns ErrNotFound if no snippet has the slug.
	UpdateBySlug(ctx context.Context, slug Slug, patch Patch) (*Snippet, error)

	// DeleteBySlug reports whether a snippet was removed.
	DeleteBySlug(ctx context.Context, slug Slug) (bool, error)

	// List returns snippets newest first.
	List(ctx context.Context, filter Filter, page PageRequest) (*Page, error)
}
