package handlers

import (
	"time"

	"github.com/serroba/duckbin/internal/snippet"
)

// SnippetBody is the wire form of a snippet.
type SnippetBody struct {
	Slug      string    `doc:"Share identifier" example:"aB3xY9k"        json:"slug"`
	Title     string    `doc:"Snippet title"    example:"Quicksort"      json:"title"`
	Code      string    `doc:"Snippet source"   example:"fmt.Println(1)" json:"code"`
	Language  string    `doc:"Language id"      example:"go"             json:"language"`
	Theme     string    `doc:"Theme id"         example:"dark"           json:"theme"`
	CreatedAt time.Time `doc:"Creation time"    json:"createdAt"`
	UpdatedAt time.Time `doc:"Last update time" json:"updatedAt"`
}

func toSnippetBody(s *snippet.Snippet) SnippetBody {
	return SnippetBody{
		Slug:      string(s.Slug),
		Title:     s.Title,
		Code:      s.Code,
		Language:  s.Language,
		Theme:     s.Theme,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// CreateSnippetRequest is the request body for creating a snippet.
// Fields are optional in the schema so that missing ones are reported together.
// Unknown properties are ignored.
type CreateSnippetRequest struct {
	Body struct {
		_ struct{} `additionalProperties:"true" json:"-"`

		Title    string `doc:"Snippet title, at most 100 characters" example:"Quicksort"      json:"title,omitempty"`
		Code     string `doc:"Snippet source"                        example:"fmt.Println(1)" json:"code,omitempty"`
		Language string `doc:"Language id, see /languages"           example:"go"             json:"language,omitempty"`
		Theme    string `doc:"Theme id, see /themes"                 example:"dark"           json:"theme,omitempty"`
	}
}

// SnippetEnvelope wraps a snippet with its share URL.
type SnippetEnvelope struct {
	Message string      `doc:"Outcome message"                               json:"message,omitempty"`
	Snippet SnippetBody `json:"snippet"`
	URL     string      `doc:"Share URL" example:"http://localhost:8888/aB3xY9k" json:"url"`
}

// SnippetResponse carries a snippet and its share URL.
type SnippetResponse struct {
	Body SnippetEnvelope
}

// CreateSnippetResponse is the response for a created snippet.
type CreateSnippetResponse struct {
	Location string `doc:"The share URL" header:"Location"`
	Body     SnippetEnvelope
}

// SlugRequest addresses one snippet.
type SlugRequest struct {
	Slug string `doc:"Share identifier" example:"aB3xY9k" path:"slug"`
}

// UpdateSnippetRequest is a partial update; omitted and unknown fields
// leave the snippet untouched.
type UpdateSnippetRequest struct {
	Slug string `doc:"Share identifier" example:"aB3xY9k" path:"slug"`
	Body struct {
		_ struct{} `additionalProperties:"true" json:"-"`

		Title    *string `doc:"New title"       json:"title,omitempty"`
		Code     *string `doc:"New source"      json:"code,omitempty"`
		Language *string `doc:"New language id" json:"language,omitempty"`
		Theme    *string `doc:"New theme id"    json:"theme,omitempty"`
	}
}

// MessageResponse carries only an outcome message.
type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// ListSnippetsRequest selects one page of snippets.
type ListSnippetsRequest struct {
	Page     int    `default:"1"  doc:"1-based page number"    query:"page"`
	Limit    int    `default:"10" doc:"Page size, at most 100" query:"limit"`
	Language string `doc:"Exact language id"                   query:"language"`
	Search   string `doc:"Case-insensitive title or code search" query:"search"`
}

// Pagination describes where a page sits in the listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ListSnippetsResponse is one page of snippets.
type ListSnippetsResponse struct {
	Body struct {
		Items      []SnippetBody `json:"items"`
		Pagination Pagination    `json:"pagination"`
	}
}
