package activity

import (
	"context"
	"errors"
)

// Store persists snippet activity.
type Store interface {
	Record(ctx context.Context, event *SnippetEvent) error
}

// MultiStore records every event in each of its stores.
type MultiStore []Store

func (m MultiStore) Record(ctx context.Context, event *SnippetEvent) error {
	errs := make([]error, 0, len(m))
	for _, s := range m {
		errs = append(errs, s.Record(ctx, event))
	}

	return errors.Join(errs...)
}
