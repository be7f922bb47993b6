package snippet

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jaevor/go-nanoid"
)

const (
	SlugLength   = 7
	SlugAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// MaxSlugAttempts bounds the draws of a single Generate call.
	MaxSlugAttempts = 10
)

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9]{7}$`)

// Slug is the public identifier of a snippet.
type Slug string

// IsValidSlug reports whether raw has the slug shape.
func IsValidSlug(raw string) bool {
	return slugPattern.MatchString(raw)
}

// ParseSlug validates the shape of raw.
func ParseSlug(raw string) (Slug, error) {
	if !IsValidSlug(raw) {
		return "", invalid("slug",
			fmt.Sprintf("invalid slug format: slug must be exactly %d alphanumeric characters", SlugLength))
	}

	return Slug(raw), nil
}

// SlugDrawer returns a random slug candidate.
type SlugDrawer func() string

// NewRandomSlugDrawer draws SlugLength characters uniformly from SlugAlphabet.
func NewRandomSlugDrawer() (SlugDrawer, error) {
	gen, err := nanoid.CustomASCII(SlugAlphabet, SlugLength)
	if err != nil {
		return nil, fmt.Errorf("creating slug drawer: %w", err)
	}

	return SlugDrawer(gen), nil
}

// SlugGenerator draws candidates until one is not in use.
type SlugGenerator struct {
	checker     SlugChecker
	draw        SlugDrawer
	maxAttempts int
}

// NewSlugGenerator creates a generator that checks candidates against checker.
func NewSlugGenerator(checker SlugChecker, draw SlugDrawer) *SlugGenerator {
	return &SlugGenerator{
		checker:     checker,
		draw:        draw,
		maxAttempts: MaxSlugAttempts,
	}
}

// Generate returns a slug that was unused at the time of the check.
// The check is racy under concurrent creates; the store's unique index is the backstop.
func (g *SlugGenerator) Generate(ctx context.Context) (Slug, error) {
	for range g.maxAttempts {
		candidate := Slug(g.draw())

		exists, err := g.checker.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug: %w", err)
		}

		if !exists {
			return candidate, nil
		}
	}

	return "", ErrSlugExhausted
}
