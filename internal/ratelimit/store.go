package ratelimit

import (
	"context"
	"time"
)

// Store keeps sliding-window request logs.
type Store interface {
	// Record logs a request under key and returns how many requests the key
	// made within the trailing window, this one included.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
