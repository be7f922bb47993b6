package snippet_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/serroba/duckbin/internal/snippet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlug(t *testing.T) {
	t.Run("accepts seven alphanumeric characters", func(t *testing.T) {
		slug, err := snippet.ParseSlug("aB3xY9z")

		require.NoError(t, err)
		assert.Equal(t, snippet.Slug("aB3xY9z"), slug)
	})

	for _, raw := range []string{"", "abc123", "abc12345", "abc-123", "abc 123", "abc_123", "äbc1234"} {
		t.Run(fmt.Sprintf("rejects %q", raw), func(t *testing.T) {
			_, err := snippet.ParseSlug(raw)

			require.ErrorIs(t, err, snippet.ErrValidation)

			var verr *snippet.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "slug", verr.Field)
			assert.Contains(t, verr.Message, "exactly 7 alphanumeric characters")
		})
	}
}

func TestNewRandomSlugDrawer(t *testing.T) {
	draw, err := snippet.NewRandomSlugDrawer()
	require.NoError(t, err)

	seen := make(map[string]struct{})

	for range 1000 {
		slug := draw()
		assert.True(t, snippet.IsValidSlug(slug), "slug %q has the wrong shape", slug)
		seen[slug] = struct{}{}
	}

	assert.Greater(t, len(seen), 990)
}

func TestSlugGenerator_Generate(t *testing.T) {
	t.Run("returns first free candidate", func(t *testing.T) {
		repo := newMockRepository()
		draw, calls := sequenceDrawer("aaaaaaa")

		slug, err := snippet.NewSlugGenerator(repo, draw).Generate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, snippet.Slug("aaaaaaa"), slug)
		assert.Equal(t, 1, *calls)
		assert.Equal(t, 1, repo.existsCalls)
	})

	t.Run("returns draw N+1 after N collisions", func(t *testing.T) {
		taken := []string{"taken01", "taken02", "taken03", "taken04"}
		repo := newMockRepository()

		for _, s := range taken {
			repo.snippets[snippet.Slug(s)] = snippet.Snippet{Slug: snippet.Slug(s)}
		}

		draw, calls := sequenceDrawer(append(taken, "freeOne")...)

		slug, err := snippet.NewSlugGenerator(repo, draw).Generate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, snippet.Slug("freeOne"), slug)
		assert.Equal(t, len(taken)+1, *calls)
		assert.Equal(t, len(taken)+1, repo.existsCalls)
	})

	t.Run("fails after max attempts", func(t *testing.T) {
		repo := newMockRepository()
		repo.snippets["collide"] = snippet.Snippet{Slug: "collide"}
		draw, _ := sequenceDrawer("collide")

		slug, err := snippet.NewSlugGenerator(repo, draw).Generate(context.Background())

		assert.Empty(t, slug)
		require.ErrorIs(t, err, snippet.ErrSlugExhausted)
		assert.Equal(t, snippet.MaxSlugAttempts, repo.existsCalls)
	})

	t.Run("succeeds on the last allowed attempt", func(t *testing.T) {
		repo := newMockRepository()
		repo.snippets["collide"] = snippet.Snippet{Slug: "collide"}

		candidates := make([]string, 0, snippet.MaxSlugAttempts)
		for range snippet.MaxSlugAttempts - 1 {
			candidates = append(candidates, "collide")
		}

		draw, _ := sequenceDrawer(append(candidates, "lastOne")...)

		slug, err := snippet.NewSlugGenerator(repo, draw).Generate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, snippet.Slug("lastOne"), slug)
	})

	t.Run("returns check error immediately", func(t *testing.T) {
		repo := newMockRepository()
		repo.existsErr = errMock
		draw, _ := sequenceDrawer("aaaaaaa")

		_, err := snippet.NewSlugGenerator(repo, draw).Generate(context.Background())

		require.ErrorIs(t, err, errMock)
		assert.Equal(t, 1, repo.existsCalls)
	})
}
