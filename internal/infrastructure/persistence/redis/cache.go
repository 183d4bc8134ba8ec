// Package redis implements the Redis caching layer: the status registry
// cache and the per-user unread notification counter. Both are pure
// accelerators - every value can be rebuilt from PostgreSQL, so cache
// failures degrade to database reads, never to errors.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss means the key is absent; callers fall through to Postgres.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheConnection wraps a failed initial ping.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization wraps a JSON encode or decode failure.
	ErrCacheSerialization = errors.New("cache: serialization failed")

	// ErrCacheKeyEmpty rejects the empty key before it reaches Redis.
	ErrCacheKeyEmpty = errors.New("cache: key cannot be empty")
)

// Key namespaces. Status registry entries live under "status:", unread
// counters under "unread:<userID>".
const (
	PrefixStatus = "status:"
	PrefixUnread = "unread:"
)

const (
	// TTLStatusCache bounds staleness of the status registry. The registry
	// changes rarely (admin renames), so a long TTL is safe.
	TTLStatusCache = 10 * time.Minute

	// TTLUnreadCount is short because the counter is also invalidated
	// explicitly when notifications are written or read.
	TTLUnreadCount = time.Minute
)

// Config holds Redis connection settings.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int
	MaxRetries   int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// DefaultConfig targets a local unauthenticated Redis.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// Addr returns the "host:port" address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Cache is a thin JSON-and-integer layer over one Redis client. The typed
// caches in this package (status registry, unread counters) build on it.
type Cache struct {
	client *redis.Client
}

// NewCache connects and verifies Redis is reachable. The server treats a
// failure here as "run without caching", not as a fatal error.
func NewCache(cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &Cache{client: client}, nil
}

// Close releases the client's connections.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Set stores value under key as JSON with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Get unmarshals the value at key into dest, or returns ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return ErrCacheMiss
	case err != nil:
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return nil
}

// SetInt stores a counter value without JSON framing.
func (c *Cache) SetInt(ctx context.Context, key string, value int, ttl time.Duration) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

// GetInt reads a counter, or returns ErrCacheMiss.
func (c *Cache) GetInt(ctx context.Context, key string) (int, error) {
	if key == "" {
		return 0, ErrCacheKeyEmpty
	}

	val, err := c.client.Get(ctx, key).Int()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, ErrCacheMiss
	case err != nil:
		return 0, err
	}
	return val, nil
}

// Delete removes keys. Deleting absent keys is not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
