//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/duckbin/internal/activity"
	"github.com/serroba/duckbin/internal/activity/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err())

	s := store.NewRedis(client)
	record := func(kind activity.Kind) {
		require.NoError(t, s.Record(ctx, &activity.SnippetEvent{Kind: kind, Slug: "abcDEF1", Language: "go"}))
	}

	record(activity.KindCreated)
	record(activity.KindViewed)
	record(activity.KindViewed)
	record(activity.KindUpdated)

	counters, err := s.SnippetCounters(ctx, "abcDEF1")
	require.NoError(t, err)
	assert.Equal(t, store.Counters{Views: 2, Updates: 1}, counters)

	views, err := s.Total(ctx, activity.KindViewed)
	require.NoError(t, err)
	assert.Equal(t, int64(2), views)

	record(activity.KindDeleted)

	counters, err = s.SnippetCounters(ctx, "abcDEF1")
	require.NoError(t, err)
	assert.Equal(t, store.Counters{}, counters)

	deleted, err := s.Total(ctx, activity.KindDeleted)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
