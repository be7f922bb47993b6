package store

import (
	"context"

	"github.com/serroba/duckbin/internal/activity"
	"go.uber.org/zap"
)

// Log is an activity.Store that writes each event to the logger.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Record(_ context.Context, event *activity.SnippetEvent) error {
	l.logger.Info("snippet activity",
		zap.String("kind", string(event.Kind)),
		zap.String("slug", event.Slug),
		zap.String("language", event.Language),
		zap.Time("occurredAt", event.OccurredAt),
		zap.String("clientIp", event.ClientIP),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
