package snippet

import (
	"strings"
	"time"
)

// Snippet is a stored piece of shared code.
type Snippet struct {
	ID        string // opaque, time-sortable; never exposed in URLs
	Slug      Slug
	Title     string
	Code      string
	Language  string
	Theme     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields returns the client-writable part of the snippet.
func (s *Snippet) Fields() Fields {
	return Fields{
		Title:    s.Title,
		Code:     s.Code,
		Language: s.Language,
		Theme:    s.Theme,
	}
}

// Fields holds the client-writable snippet attributes.
type Fields struct {
	Title    string
	Code     string
	Language string
	Theme    string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title    *string
	Code     *string
	Language *string
	Theme    *string
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Code == nil && p.Language == nil && p.Theme == nil
}

// Apply writes the set fields of the patch onto s.
func (p Patch) Apply(s *Snippet) {
	if p.Title != nil {
		s.Title = *p.Title
	}

	if p.Code != nil {
		s.Code = *p.Code
	}

	if p.Language != nil {
		s.Language = *p.Language
	}

	if p.Theme != nil {
		s.Theme = *p.Theme
	}
}

// Filter narrows a listing.
type Filter struct {
	Language string // exact match when set
	Search   string // case-insensitive substring of title or code
}

// Matches reports whether s passes the filter.
func (f Filter) Matches(s *Snippet) bool {
	if f.Language != "" && s.Language != f.Language {
		return false
	}

	if f.Search == "" {
		return true
	}

	needle := strings.ToLower(f.Search)

	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.Code), needle)
}

// PageRequest selects an offset page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request into the supported range.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}

	if r.Page > MaxPage {
		r.Page = MaxPage
	}

	if r.Limit < 1 {
		r.Limit = DefaultPageSize
	}

	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}

	return r
}

// Offset is the number of records skipped before this page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// Page is one page of a listing plus its pagination metadata.
type Page struct {
	Items      []Snippet
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewPage computes the pagination metadata for items out of total matches.
func NewPage(items []Snippet, total int, req PageRequest) *Page {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}

	if items == nil {
		items = []Snippet{}
	}

	return &Page{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}
}
