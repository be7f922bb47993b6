package activity

import (
	"time"

	"github.com/serroba/duckbin/internal/snippet"
)

// Kind is what happened to a snippet.
type Kind string

const (
	KindCreated Kind = "created"
	KindViewed  Kind = "viewed"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

const (
	TopicSnippetCreated = "snippet.created"
	TopicSnippetViewed  = "snippet.viewed"
	TopicSnippetUpdated = "snippet.updated"
	TopicSnippetDeleted = "snippet.deleted"
)

// Kinds lists every event kind in lifecycle order.
var Kinds = []Kind{KindCreated, KindViewed, KindUpdated, KindDeleted}

var topics = map[Kind]string{
	KindCreated: TopicSnippetCreated,
	KindViewed:  TopicSnippetViewed,
	KindUpdated: TopicSnippetUpdated,
	KindDeleted: TopicSnippetDeleted,
}

// Topic returns the topic events of kind are published on.
func (k Kind) Topic() string {
	return topics[k]
}

// SnippetEvent records one operation on a snippet.
type SnippetEvent struct {
	Kind       Kind      `json:"kind"`
	Slug       string    `json:"slug"`
	Language   string    `json:"language,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	ClientIP   string    `json:"clientIp,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	Referrer   string    `json:"referrer,omitempty"`
}

// NewSnippetEvent builds an event for s, taking request metadata from meta.
func NewSnippetEvent(kind Kind, s *snippet.Snippet, meta RequestMeta, now time.Time) *SnippetEvent {
	return &SnippetEvent{
		Kind:       kind,
		Slug:       string(s.Slug),
		Language:   s.Language,
		OccurredAt: now,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}
}
