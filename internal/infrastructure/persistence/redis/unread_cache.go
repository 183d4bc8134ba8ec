package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNREAD COUNTER CACHE
// The bell badge is read on every page load; the count only changes on a
// fan-out insert or a mark-read. Read-through with a short TTL plus
// explicit invalidation on every write keeps the badge honest without a
// COUNT(*) per page view.
// ══════════════════════════════════════════════════════════════════════════════

// UnreadCountSource is the authoritative counter (the notification
// repository).
type UnreadCountSource interface {
	CountUnread(ctx context.Context, userID int64) (int, error)
}

// UnreadCountCache is a read-through cache over the unread counter. It
// satisfies the application layer's UnreadCounter and UnreadInvalidator
// interfaces.
type UnreadCountCache struct {
	source UnreadCountSource
	cache  *Cache
	logger *slog.Logger
}

// NewUnreadCountCache creates the counter cache.
func NewUnreadCountCache(source UnreadCountSource, cache *Cache, logger *slog.Logger) *UnreadCountCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnreadCountCache{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("%s%d", PrefixUnread, userID)
}

// CountUnread returns the counter, preferring the cache.
func (c *UnreadCountCache) CountUnread(ctx context.Context, userID int64) (int, error) {
	key := unreadKey(userID)

	count, err := c.cache.GetInt(ctx, key)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("unread cache read failed", "user_id", userID, "error", err)
	}

	count, err = c.source.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := c.cache.SetInt(ctx, key, count, TTLUnreadCount); err != nil {
		c.logger.Warn("unread cache write failed", "user_id", userID, "error", err)
	}
	return count, nil
}

// InvalidateUnread drops the cached counter after a write.
func (c *UnreadCountCache) InvalidateUnread(ctx context.Context, userID int64) {
	if err := c.cache.Delete(ctx, unreadKey(userID)); err != nil {
		c.logger.Warn("unread cache invalidation failed", "user_id", userID, "error", err)
	}
}
