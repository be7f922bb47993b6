package snippet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	MaxTitleLength  = 100
	DefaultTitle    = "Untitled Snippet"
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps page offsets well inside int range on every platform.
	MaxPage = math.MaxInt32 / MaxPageSize

	// maxInsertAttempts bounds slug regeneration after losing an insert race.
	maxInsertAttempts = 3
)

// Input is the payload of a create request.
type Input struct {
	Title    string
	Code     string
	Language string
	Theme    string
}

// Service validates requests and delegates to the repository.
type Service struct {
	repo   Repository
	slugs  *SlugGenerator
	logger *zap.Logger
}

// NewService creates a snippet service.
func NewService(repo Repository, slugs *SlugGenerator, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		slugs:  slugs,
		logger: logger,
	}
}

// Create validates in, assigns a fresh slug and stores the snippet.
func (s *Service) Create(ctx context.Context, in Input) (*Snippet, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	for range maxInsertAttempts {
		slug, err := s.slugs.Generate(ctx)
		if err != nil {
			s.logger.Error("slug generation failed", zap.Error(err))
			return nil, err
		}

		snip := &Snippet{
			Slug:     slug,
			Title:    title,
			Code:     in.Code,
			Language: in.Language,
			Theme:    in.Theme,
		}

		err = s.repo.Insert(ctx, snip)
		if errors.Is(err, ErrSlugTaken) {
			s.logger.Warn("slug taken on insert, regenerating", zap.String("slug", string(slug)))
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("creating snippet: %w", err)
		}

		s.logger.Info("snippet created",
			zap.String("slug", string(snip.Slug)),
			zap.String("language", snip.Language),
		)

		return snip, nil
	}

	return nil, ErrSlugExhausted
}

// Get returns the snippet with the given slug.
func (s *Service) Get(ctx context.Context, rawSlug string) (*Snippet, error) {
	slug, err := ParseSlug(rawSlug)
	if err != nil {
		return nil, err
	}

	return s.repo.GetBySlug(ctx, slug)
}

// Update applies patch to the snippet with the given slug.
// An empty patch is rejected without touching the store.
func (s *Service) Update(ctx context.Context, rawSlug string, patch Patch) (*Snippet, error) {
	slug, err := ParseSlug(rawSlug)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return nil, invalid("", "no valid fields provided for update")
	}

	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return nil, err
		}

		patch.Title = &title
	}

	if patch.Language != nil {
		if err := validateLanguage(*patch.Language); err != nil {
			return nil, err
		}
	}

	if patch.Theme != nil {
		if err := validateTheme(*patch.Theme); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateBySlug(ctx, slug, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("snippet updated", zap.String("slug", string(slug)))

	return updated, nil
}

// Delete removes the snippet with the given slug.
// Returns ErrNotFound if nothing was removed.
func (s *Service) Delete(ctx context.Context, rawSlug string) error {
	slug, err := ParseSlug(rawSlug)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if !deleted {
		return ErrNotFound
	}

	s.logger.Info("snippet deleted", zap.String("slug", string(slug)))

	return nil
}

// List returns one page of snippets, newest first.
func (s *Service) List(ctx context.Context, filter Filter, page PageRequest) (*Page, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	return s.repo.List(ctx, filter, page.Normalize())
}

func validateInput(in Input) error {
	var missing []string

	if in.Title == "" {
		missing = append(missing, "title")
	}

	if in.Code == "" {
		missing = append(missing, "code")
	}

	if in.Language == "" {
		missing = append(missing, "language")
	}

	if in.Theme == "" {
		missing = append(missing, "theme")
	}

	if len(missing) > 0 {
		return invalid(strings.Join(missing, ","),
			"missing required fields: "+strings.Join(missing, ", "))
	}

	if err := validateLanguage(in.Language); err != nil {
		return err
	}

	return validateTheme(in.Theme)
}

// normalizeTitle trims the title, enforces the length limit and
// substitutes the placeholder for a blank title.
func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", invalid("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	if title == "" {
		return DefaultTitle, nil
	}

	return title, nil
}

func validateLanguage(id string) error {
	if _, ok := LookupLanguage(id); !ok {
		return invalid("language", fmt.Sprintf("invalid language: %q", id))
	}

	return nil
}

func validateTheme(id string) error {
	if _, ok := LookupTheme(id); !ok {
		return invalid("theme", fmt.Sprintf("invalid theme: %q", id))
	}

	return nil
}
