package activity

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/duckbin/internal/messaging"
	"github.com/serroba/duckbin/internal/snippet"
	"go.uber.org/zap"
)

// Publisher emits snippet activity. Failures are logged, never returned,
// so activity tracking cannot fail a request.
type Publisher struct {
	publish map[Kind]messaging.Publish[SnippetEvent]
	logger  *zap.Logger
	now     func() time.Time
}

// NewPublisher creates a publisher with one topic per event kind.
func NewPublisher(publisher message.Publisher, logger *zap.Logger) *Publisher {
	publish := make(map[Kind]messaging.Publish[SnippetEvent], len(Kinds))
	for _, kind := range Kinds {
		publish[kind] = messaging.NewPublishFunc[SnippetEvent](publisher, kind.Topic())
	}

	return &Publisher{
		publish: publish,
		logger:  logger,
		now:     time.Now,
	}
}

// Publish emits a kind event for s with the request metadata found in ctx.
func (p *Publisher) Publish(ctx context.Context, kind Kind, s *snippet.Snippet) {
	event := NewSnippetEvent(kind, s, RequestMetaFromContext(ctx), p.now())

	if err := p.publish[kind](ctx, event); err != nil {
		p.logger.Warn("failed to publish activity event",
			zap.String("kind", string(kind)),
			zap.String("slug", event.Slug),
			zap.Error(err),
		)
	}
}
