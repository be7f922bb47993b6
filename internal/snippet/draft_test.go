package snippet_test

import (
	"testing"
	"time"

	"github.com/serroba/duckbin/internal/snippet"
	"github.com/stretchr/testify/assert"
)

func savedSnippet() *snippet.Snippet {
	now := time.Now()

	return &snippet.Snippet{
		ID:        "id",
		Slug:      "abcDEF1",
		Title:     "Hello",
		Code:      "print(1)",
		Language:  "python",
		Theme:     "dark",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDraft(t *testing.T) {
	t.Run("new draft uses defaults and has no changes", func(t *testing.T) {
		d := snippet.NewDraft()

		assert.Empty(t, d.Slug())
		assert.Equal(t, snippet.DefaultLanguageID, d.Working.Language)
		assert.Equal(t, snippet.DefaultThemeID, d.Working.Theme)
		assert.False(t, d.HasChanges())
	})

	t.Run("new draft has changes once code is typed", func(t *testing.T) {
		d := snippet.NewDraft()
		d.Working.Code = "x"

		assert.True(t, d.HasChanges())
		assert.Equal(t, "x", d.Input().Code)
	})

	t.Run("saved draft compares fields", func(t *testing.T) {
		d := snippet.DraftOf(savedSnippet())

		assert.Equal(t, snippet.Slug("abcDEF1"), d.Slug())
		assert.False(t, d.HasChanges())

		d.Working.Theme = "wine"
		assert.True(t, d.HasChanges())

		d.Working.Theme = "dark"
		assert.False(t, d.HasChanges())
	})

	t.Run("patch holds only changed fields", func(t *testing.T) {
		d := snippet.DraftOf(savedSnippet())
		d.Working.Code = "print(2)"

		p := d.Patch()

		assert.Nil(t, p.Title)
		assert.Nil(t, p.Language)
		assert.Nil(t, p.Theme)
		if assert.NotNil(t, p.Code) {
			assert.Equal(t, "print(2)", *p.Code)
		}
	})

	t.Run("patch of unchanged draft is empty", func(t *testing.T) {
		assert.True(t, snippet.DraftOf(savedSnippet()).Patch().IsEmpty())
	})

	t.Run("discard reverts to saved copy", func(t *testing.T) {
		d := snippet.DraftOf(savedSnippet())
		d.Working.Title = "Changed"

		d.Discard()

		assert.Equal(t, "Hello", d.Working.Title)
		assert.False(t, d.HasChanges())
	})

	t.Run("discard of new draft clears buffer", func(t *testing.T) {
		d := snippet.NewDraft()
		d.Working.Code = "x"

		d.Discard()

		assert.Empty(t, d.Working.Code)
		assert.False(t, d.HasChanges())
	})

	t.Run("mark saved adopts a copy", func(t *testing.T) {
		s := savedSnippet()
		d := snippet.NewDraft()

		d.MarkSaved(s)
		s.Title = "mutated"

		assert.Equal(t, "Hello", d.Saved.Title)
		assert.False(t, d.HasChanges())
	})
}
