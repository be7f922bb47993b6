package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/duckbin/internal/snippet"
	"go.uber.org/zap"
)

// RedisCacheRepository wraps a Repository with Redis caching for slug reads.
// Listings always go to the underlying store.
type RedisCacheRepository struct {
	store  snippet.Repository
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store snippet.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		logger: logger,
		prefix: "snippet:",
		ttl:    ttl,
	}
}

// SlugExists answers from the cache when the snippet is cached.
func (r *RedisCacheRepository) SlugExists(ctx context.Context, slug snippet.Slug) (bool, error) {
	if n, err := r.client.Exists(ctx, r.key(slug)).Result(); err == nil && n > 0 {
		return true, nil
	}

	return r.store.SlugExists(ctx, slug)
}

// Insert stores a snippet in the underlying store and updates the cache.
func (r *RedisCacheRepository) Insert(ctx context.Context, s *snippet.Snippet) error {
	if err := r.store.Insert(ctx, s); err != nil {
		return err
	}

	r.cacheSnippet(ctx, s)

	return nil
}

// GetBySlug retrieves a snippet, checking the cache first.
func (r *RedisCacheRepository) GetBySlug(ctx context.Context, slug snippet.Slug) (*snippet.Snippet, error) {
	if s, err := r.getFromCache(ctx, slug); err == nil {
		return s, nil
	}

	s, err := r.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	r.cacheSnippet(ctx, s)

	return s, nil
}

// UpdateBySlug updates the underlying store and refreshes the cache.
func (r *RedisCacheRepository) UpdateBySlug(
	ctx context.Context, slug snippet.Slug, patch snippet.Patch,
) (*snippet.Snippet, error) {
	s, err := r.store.UpdateBySlug(ctx, slug, patch)
	if err != nil {
		return nil, err
	}

	r.cacheSnippet(ctx, s)

	return s, nil
}

// DeleteBySlug evicts the cache entry around the store delete. The second
// eviction drops any copy a concurrent read cached before the row was gone.
func (r *RedisCacheRepository) DeleteBySlug(ctx context.Context, slug snippet.Slug) (bool, error) {
	r.evict(ctx, slug)

	deleted, err := r.store.DeleteBySlug(ctx, slug)

	r.evict(ctx, slug)

	return deleted, err
}

func (r *RedisCacheRepository) evict(ctx context.Context, slug snippet.Slug) {
	if err := r.client.Del(ctx, r.key(slug)).Err(); err != nil {
		r.logger.Warn("cache eviction failed", zap.String("slug", string(slug)), zap.Error(err))
	}
}

func (r *RedisCacheRepository) List(
	ctx context.Context, filter snippet.Filter, req snippet.PageRequest,
) (*snippet.Page, error) {
	return r.store.List(ctx, filter, req)
}

func (r *RedisCacheRepository) key(slug snippet.Slug) string {
	return r.prefix + string(slug)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, slug snippet.Slug) (*snippet.Snippet, error) {
	result, err := r.client.HGetAll(ctx, r.key(slug)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, snippet.ErrNotFound
	}

	return &snippet.Snippet{
		ID:        result["id"],
		Slug:      snippet.Slug(result["slug"]),
		Title:     result["title"],
		Code:      result["code"],
		Language:  result["language"],
		Theme:     result["theme"],
		CreatedAt: parseNanos(result["created_at"]),
		UpdatedAt: parseNanos(result["updated_at"]),
	}, nil
}

func (r *RedisCacheRepository) cacheSnippet(ctx context.Context, s *snippet.Snippet) {
	pipe := r.client.Pipeline()
	key := r.key(s.Slug)

	pipe.HSet(ctx, key, map[string]any{
		"id":         s.ID,
		"slug":       string(s.Slug),
		"title":      s.Title,
		"code":       s.Code,
		"language":   s.Language,
		"theme":      s.Theme,
		"created_at": s.CreatedAt.UnixNano(),
		"updated_at": s.UpdatedAt.UnixNano(),
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("cache write failed", zap.String("slug", string(s.Slug)), zap.Error(err))
	}
}

func parseNanos(ts string) time.Time {
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(0, nanos)
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ snippet.Repository = (*RedisCacheRepository)(nil)
