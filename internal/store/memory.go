package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/serroba/duckbin/internal/snippet"
)

// MemoryStore is an in-memory implementation of snippet.Repository.
type MemoryStore struct {
	mu       sync.RWMutex
	snippets map[snippet.Slug]snippet.Snippet
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory snippet store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snippets: make(map[snippet.Slug]snippet.Snippet),
		now:      time.Now,
	}
}

func (m *MemoryStore) SlugExists(_ context.Context, slug snippet.Slug) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.snippets[slug]

	return ok, nil
}

func (m *MemoryStore) Insert(_ context.Context, s *snippet.Snippet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snippets[s.Slug]; ok {
		return snippet.ErrSlugTaken
	}

	now := m.now()
	s.ID = xid.NewWithTime(now).String()
	s.CreatedAt = now
	s.UpdatedAt = now
	m.snippets[s.Slug] = *s

	return nil
}

func (m *MemoryStore) GetBySlug(_ context.Context, slug snippet.Slug) (*snippet.Snippet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snippets[slug]
	if !ok {
		return nil, snippet.ErrNotFound
	}

	return &s, nil
}

func (m *MemoryStore) UpdateBySlug(
	_ context.Context, slug snippet.Slug, patch snippet.Patch,
) (*snippet.Snippet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.snippets[slug]
	if !ok {
		return nil, snippet.ErrNotFound
	}

	patch.Apply(&s)
	s.UpdatedAt = m.now()
	m.snippets[slug] = s

	return &s, nil
}

func (m *MemoryStore) DeleteBySlug(_ context.Context, slug snippet.Slug) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snippets[slug]; !ok {
		return false, nil
	}

	delete(m.snippets, slug)

	return true, nil
}

func (m *MemoryStore) List(
	_ context.Context, filter snippet.Filter, req snippet.PageRequest,
) (*snippet.Page, error) {
	m.mu.RLock()

	matched := make([]snippet.Snippet, 0, len(m.snippets))

	for _, s := range m.snippets {
		if filter.Matches(&s) {
			matched = append(matched, s)
		}
	}

	m.mu.RUnlock()

	slices.SortFunc(matched, newestFirst)

	total := len(matched)
	start := min(req.Offset(), total)
	end := min(start+req.Limit, total)

	return snippet.NewPage(slices.Clone(matched[start:end]), total, req), nil
}

// newestFirst orders by creation time descending, then by id descending.
func newestFirst(a, b snippet.Snippet) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}

	return strings.Compare(b.ID, a.ID)
}

// Compile-time check.
var _ snippet.Repository = (*MemoryStore)(nil)
