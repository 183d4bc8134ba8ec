package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

// ══════════════════════════════════════════════════════════════════════════════
// CACHED STATUS REPOSITORY
// Read-through decorator over the PostgreSQL status registry. The
// registry backs every dropdown and every history-name resolution, so it
// is by far the hottest read path. Cache errors fall through to the
// database.
// ══════════════════════════════════════════════════════════════════════════════

// CachedStatusRepository wraps a status.Repository with Redis caching.
type CachedStatusRepository struct {
	inner  status.Repository
	cache  *Cache
	logger *slog.Logger
}

// NewCachedStatusRepository creates the caching decorator.
func NewCachedStatusRepository(inner status.Repository, cache *Cache, logger *slog.Logger) *CachedStatusRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStatusRepository{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// GetByID returns a status, preferring the cache.
func (r *CachedStatusRepository) GetByID(ctx context.Context, id status.StatusID) (*status.Status, error) {
	key := fmt.Sprintf("%sid:%d", PrefixStatus, int64(id))

	var cached status.Status
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("status cache read failed", "key", key, "error", err)
	}

	s, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, s, TTLStatusCache); err != nil {
		r.logger.Warn("status cache write failed", "key", key, "error", err)
	}
	return s, nil
}

// ListActive returns the active registry, preferring the cache.
func (r *CachedStatusRepository) ListActive(ctx context.Context) ([]*status.Status, error) {
	key := PrefixStatus + "active"

	var cached []*status.Status
	err := r.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("status cache read failed", "key", key, "error", err)
	}

	statuses, err := r.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, statuses, TTLStatusCache); err != nil {
		r.logger.Warn("status cache write failed", "key", key, "error", err)
	}
	return statuses, nil
}

// Seed delegates to the inner repository and drops the listing key, since
// a seed on an empty registry changes what ListActive returns.
func (r *CachedStatusRepository) Seed(ctx context.Context) error {
	if err := r.inner.Seed(ctx); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, PrefixStatus+"active"); err != nil {
		r.logger.Warn("status cache invalidation failed", "error", err)
	}
	return nil
}
