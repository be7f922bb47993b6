package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/serroba/duckbin/internal/snippet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository runs the behaviour every snippet.Repository backend shares.
// newRepo must return an empty repository.
func testRepository(t *testing.T, newRepo func(t *testing.T) snippet.Repository) {
	t.Helper()

	ctx := context.Background()

	t.Run("insert fills id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		s := newSnippet("abcDEF1")

		require.NoError(t, repo.Insert(ctx, s))

		assert.NotEmpty(t, s.ID)
		assert.False(t, s.CreatedAt.IsZero())
		assert.True(t, s.UpdatedAt.Equal(s.CreatedAt))
	})

	t.Run("insert rejects duplicate slug", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newSnippet("dupSlug")))

		err := repo.Insert(ctx, newSnippet("dupSlug"))

		require.ErrorIs(t, err, snippet.ErrSlugTaken)
	})

	t.Run("slug exists", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newSnippet("exists1")))

		exists, err := repo.SlugExists(ctx, "exists1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.SlugExists(ctx, "absent1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("get round trips fields", func(t *testing.T) {
		repo := newRepo(t)
		s := newSnippet("round01")
		require.NoError(t, repo.Insert(ctx, s))

		got, err := repo.GetBySlug(ctx, "round01")

		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
		assert.Equal(t, s.Fields(), got.Fields())
		assert.True(t, got.CreatedAt.Equal(s.CreatedAt))
		assert.True(t, got.UpdatedAt.Equal(got.CreatedAt))
	})

	t.Run("get unknown slug returns ErrNotFound", func(t *testing.T) {
		got, err := newRepo(t).GetBySlug(ctx, "missing")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, snippet.ErrNotFound)
	})

	t.Run("update applies only set fields", func(t *testing.T) {
		repo := newRepo(t)
		s := newSnippet("update1")
		require.NoError(t, repo.Insert(ctx, s))

		code := "fmt.Println(2)"
		theme := "wine"

		updated, err := repo.UpdateBySlug(ctx, "update1", snippet.Patch{Code: &code, Theme: &theme})

		require.NoError(t, err)
		assert.Equal(t, snippet.Fields{Title: s.Title, Code: code, Language: s.Language, Theme: theme}, updated.Fields())
		assert.Equal(t, s.Slug, updated.Slug)
		assert.True(t, updated.CreatedAt.Equal(s.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(s.UpdatedAt))

		got, err := repo.GetBySlug(ctx, "update1")
		require.NoError(t, err)
		assert.Equal(t, updated.Fields(), got.Fields())
	})

	t.Run("update unknown slug returns ErrNotFound", func(t *testing.T) {
		code := "x"

		_, err := newRepo(t).UpdateBySlug(ctx, "missing", snippet.Patch{Code: &code})

		assert.ErrorIs(t, err, snippet.ErrNotFound)
	})

	t.Run("second delete reports false", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Insert(ctx, newSnippet("delete1")))

		deleted, err := repo.DeleteBySlug(ctx, "delete1")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.DeleteBySlug(ctx, "delete1")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = repo.GetBySlug(ctx, "delete1")
		assert.ErrorIs(t, err, snippet.ErrNotFound)
	})

	t.Run("list pages newest first", func(t *testing.T) {
		repo := newRepo(t)
		slugs := make([]snippet.Slug, 25)

		for i := range slugs {
			slugs[i] = snippet.Slug(fmt.Sprintf("page%03d", i))
			require.NoError(t, repo.Insert(ctx, newSnippet(slugs[i])))
		}

		page, err := repo.List(ctx, snippet.Filter{}, snippet.PageRequest{Page: 2, Limit: 10})
		require.NoError(t, err)

		want := make([]snippet.Slug, 0, 10)
		for i := 14; i >= 5; i-- {
			want = append(want, slugs[i])
		}

		if diff := cmp.Diff(want, slugsOf(page.Items)); diff != "" {
			t.Errorf("page 2 mismatch (-want +got):\n%s", diff)
		}

		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasNext)
		assert.True(t, page.HasPrev)

		last, err := repo.List(ctx, snippet.Filter{}, snippet.PageRequest{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, last.Items, 5)
		assert.False(t, last.HasNext)

		beyond, err := repo.List(ctx, snippet.Filter{}, snippet.PageRequest{Page: 9, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, beyond.Items)
		assert.Equal(t, 25, beyond.Total)
	})

	t.Run("list filters by language and search", func(t *testing.T) {
		repo := newRepo(t)

		for _, s := range []*snippet.Snippet{
			{Slug: "filter1", Title: "Quick Sort", Code: "def qs(xs): pass", Language: "python", Theme: "dark"},
			{Slug: "filter2", Title: "Hello", Code: "fmt.Println(\"QUICK\")", Language: "go", Theme: "dark"},
			{Slug: "filter3", Title: "100% done", Code: "echo done", Language: "bash", Theme: "light"},
			{Slug: "filter4", Title: "Merge", Code: "func merge() {}", Language: "go", Theme: "dark"},
			{Slug: "filter5", Title: "ÉCLAIR", Code: "fn bake() {}", Language: "rust", Theme: "dark"},
		} {
			require.NoError(t, repo.Insert(ctx, s))
		}

		tests := []struct {
			name   string
			filter snippet.Filter
			want   []snippet.Slug
		}{
			{"language", snippet.Filter{Language: "go"}, []snippet.Slug{"filter4", "filter2"}},
			{"search title or code", snippet.Filter{Search: "quick"}, []snippet.Slug{"filter2", "filter1"}},
			{"search and language", snippet.Filter{Search: "quick", Language: "python"}, []snippet.Slug{"filter1"}},
			{"search is literal", snippet.Filter{Search: "0%"}, []snippet.Slug{"filter3"}},
			{"wildcards do not match", snippet.Filter{Search: "_"}, []snippet.Slug{}},
			{"search folds non-ascii case", snippet.Filter{Search: "éclair"}, []snippet.Slug{"filter5"}},
			{"unknown language", snippet.Filter{Language: "cobol"}, []snippet.Slug{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				page, err := repo.List(ctx, tt.filter, snippet.PageRequest{Page: 1, Limit: 10})
				require.NoError(t, err)

				if diff := cmp.Diff(tt.want, slugsOf(page.Items)); diff != "" {
					t.Errorf("filter mismatch (-want +got):\n%s", diff)
				}

				assert.Equal(t, len(tt.want), page.Total)
			})
		}
	})
}

func newSnippet(slug snippet.Slug) *snippet.Snippet {
	return &snippet.Snippet{
		Slug:     slug,
		Title:    "Hello",
		Code:     "fmt.Println(1)",
		Language: "go",
		Theme:    "dark",
	}
}

func slugsOf(items []snippet.Snippet) []snippet.Slug {
	slugs := make([]snippet.Slug, 0, len(items))
	for _, s := range items {
		slugs = append(slugs, s.Slug)
	}

	return slugs
}
