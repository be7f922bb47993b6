package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/duckbin/internal/activity"
)

// Counters is the aggregate activity of one snippet.
type Counters struct {
	Views   int64
	Updates int64
}

// Redis is an activity.Store keeping counters in Redis.
//
// Keys: activity:snippet:<slug> hash with views and updates fields,
// activity:total:<kind> global counters, and activity:language:<id>
// counting creates per language.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "activity:"}
}

func (r *Redis) Record(ctx context.Context, event *activity.SnippetEvent) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, r.prefix+"total:"+string(event.Kind))

	snippetKey := r.prefix + "snippet:" + event.Slug

	switch event.Kind {
	case activity.KindCreated:
		if event.Language != "" {
			pipe.Incr(ctx, r.prefix+"language:"+event.Language)
		}
	case activity.KindViewed:
		pipe.HIncrBy(ctx, snippetKey, "views", 1)
	case activity.KindUpdated:
		pipe.HIncrBy(ctx, snippetKey, "updates", 1)
	case activity.KindDeleted:
		pipe.Del(ctx, snippetKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: recording %s activity: %w", event.Kind, err)
	}

	return nil
}

// SnippetCounters returns the counters of one snippet.
func (r *Redis) SnippetCounters(ctx context.Context, slug string) (Counters, error) {
	values, err := r.client.HGetAll(ctx, r.prefix+"snippet:"+slug).Result()
	if err != nil {
		return Counters{}, err
	}

	views, _ := strconv.ParseInt(values["views"], 10, 64)
	updates, _ := strconv.ParseInt(values["updates"], 10, 64)

	return Counters{Views: views, Updates: updates}, nil
}

// Total returns how many events of kind were recorded.
func (r *Redis) Total(ctx context.Context, kind activity.Kind) (int64, error) {
	n, err := r.client.Get(ctx, r.prefix+"total:"+string(kind)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	return n, err
}
