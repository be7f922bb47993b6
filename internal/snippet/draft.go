package snippet

// Draft pairs the last saved copy of a snippet with a working buffer.
// A draft without a saved copy describes a snippet that was never created.
type Draft struct {
	Saved   *Snippet
	Working Fields
}

// NewDraft starts a draft for a new snippet with default language and theme.
func NewDraft() *Draft {
	return &Draft{
		Working: Fields{
			Language: DefaultLanguageID,
			Theme:    DefaultThemeID,
		},
	}
}

// DraftOf starts a draft from a saved snippet.
func DraftOf(s *Snippet) *Draft {
	d := &Draft{}
	d.MarkSaved(s)

	return d
}

// Slug returns the slug of the saved copy, or "" for a new snippet.
func (d *Draft) Slug() Slug {
	if d.Saved == nil {
		return ""
	}

	return d.Saved.Slug
}

// HasChanges reports whether the working buffer differs from the saved copy.
// A new draft has changes once any field is filled in.
func (d *Draft) HasChanges() bool {
	if d.Saved == nil {
		return d.Working.Title != "" || d.Working.Code != ""
	}

	return d.Working != d.Saved.Fields()
}

// Patch returns only the fields that differ from the saved copy.
func (d *Draft) Patch() Patch {
	var p Patch

	if d.Saved == nil {
		w := d.Working

		return Patch{Title: &w.Title, Code: &w.Code, Language: &w.Language, Theme: &w.Theme}
	}

	saved := d.Saved.Fields()

	if d.Working.Title != saved.Title {
		p.Title = ptr(d.Working.Title)
	}

	if d.Working.Code != saved.Code {
		p.Code = ptr(d.Working.Code)
	}

	if d.Working.Language != saved.Language {
		p.Language = ptr(d.Working.Language)
	}

	if d.Working.Theme != saved.Theme {
		p.Theme = ptr(d.Working.Theme)
	}

	return p
}

// Input converts the working buffer into a create request.
func (d *Draft) Input() Input {
	return Input{
		Title:    d.Working.Title,
		Code:     d.Working.Code,
		Language: d.Working.Language,
		Theme:    d.Working.Theme,
	}
}

// Discard reverts the working buffer to the saved copy.
func (d *Draft) Discard() {
	if d.Saved == nil {
		*d = *NewDraft()

		return
	}

	d.Working = d.Saved.Fields()
}

// MarkSaved adopts s as the saved copy and resets the working buffer to it.
func (d *Draft) MarkSaved(s *Snippet) {
	saved := *s
	d.Saved = &saved
	d.Working = saved.Fields()
}

func ptr[T any](v T) *T {
	return &v
}
