package snippet_test

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/duckbin/internal/snippet"
)

var errMock = errors.New("mock error")

// mockRepository is a map-backed Repository that records calls and can be
// configured to fail.
type mockRepository struct {
	snippets map[snippet.Slug]snippet.Snippet

	existsErr error
	insertErr []error // consumed one per Insert call
	getErr    error
	listErr   error

	existsCalls int
	insertCalls int
	updateCalls int
	deleteCalls int
	getCalls    int
}

func newMockRepository() *mockRepository {
	return &mockRepository{snippets: make(map[snippet.Slug]snippet.Snippet)}
}

func (m *mockRepository) storeCalls() int {
	return m.existsCalls + m.insertCalls + m.updateCalls + m.deleteCalls + m.getCalls
}

func (m *mockRepository) SlugExists(_ context.Context, slug snippet.Slug) (bool, error) {
	m.existsCalls++

	if m.existsErr != nil {
		return false, m.existsErr
	}

	_, ok := m.snippets[slug]

	return ok, nil
}

func (m *mockRepository) Insert(_ context.Context, s *snippet.Snippet) error {
	m.insertCalls++

	if len(m.insertErr) > 0 {
		err := m.insertErr[0]
		m.insertErr = m.insertErr[1:]

		if err != nil {
			return err
		}
	}

	if _, ok := m.snippets[s.Slug]; ok {
		return snippet.ErrSlugTaken
	}

	now := time.Now()
	s.ID = string(s.Slug)
	s.CreatedAt = now
	s.UpdatedAt = now
	m.snippets[s.Slug] = *s

	return nil
}

func (m *mockRepository) GetBySlug(_ context.Context, slug snippet.Slug) (*snippet.Snippet, error) {
	m.getCalls++

	if m.getErr != nil {
		return nil, m.getErr
	}

	s, ok := m.snippets[slug]
	if !ok {
		return nil, snippet.ErrNotFound
	}

	return &s, nil
}

func (m *mockRepository) UpdateBySlug(_ context.Context, slug snippet.Slug, patch snippet.Patch) (*snippet.Snippet, error) {
	m.updateCalls++

	s, ok := m.snippets[slug]
	if !ok {
		return nil, snippet.ErrNotFound
	}

	patch.Apply(&s)
	s.UpdatedAt = time.Now()
	m.snippets[slug] = s

	return &s, nil
}

func (m *mockRepository) DeleteBySlug(_ context.Context, slug snippet.Slug) (bool, error) {
	m.deleteCalls++

	if _, ok := m.snippets[slug]; !ok {
		return false, nil
	}

	delete(m.snippets, slug)

	return true, nil
}

func (m *mockRepository) List(_ context.Context, filter snippet.Filter, req snippet.PageRequest) (*snippet.Page, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	var items []snippet.Snippet

	for _, s := range m.snippets {
		if filter.Matches(&s) {
			items = append(items, s)
		}
	}

	total := len(items)
	start := min(req.Offset(), total)
	end := min(start+req.Limit, total)

	return snippet.NewPage(items[start:end], total, req), nil
}

// sequenceDrawer returns the given candidates in order, then repeats the last.
func sequenceDrawer(candidates ...string) (snippet.SlugDrawer, *int) {
	calls := 0

	return func() string {
		i := min(calls, len(candidates)-1)
		calls++

		return candidates[i]
	}, &calls
}
