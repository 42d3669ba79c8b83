// Package cache is a fail-safe Redis cache for derived values such as like counts.
package cache

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LikeCountTTL bounds how stale a cached like count can get.
const LikeCountTTL = 30 * time.Second

// opTimeout caps each Redis round trip independently of the caller's deadline.
const opTimeout = 200 * time.Millisecond

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client is valid and caches nothing.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. An empty addr disables caching and returns nil.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		MaxRetries:   -1,
	}
	return &Client{client: redis.NewClient(opts)}
}

// opContext bounds one Redis call to opTimeout. It keeps the caller's values
// but not its cancellation or deadline.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), opTimeout)
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	ctx, cancel := opContext(ctx)
	defer cancel()
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	ctx, cancel := opContext(ctx)
	defer cancel()
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return nil
	}
	return nil
}

// Delete removes a key. Unlike Get and Set it reports redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	ctx, cancel := opContext(ctx)
	defer cancel()
	return c.client.Del(ctx, key).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// LikeCountKey is the cache key for a post's like count.
func LikeCountKey(postID string) string {
	return "post:" + postID + ":likes"
}

// LikeCount returns a cached like count. ok is false on a miss.
func (c *Client) LikeCount(ctx context.Context, postID string) (count int64, ok bool) {
	raw, _ := c.Get(ctx, LikeCountKey(postID))
	if raw == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetLikeCount caches a post's like count for LikeCountTTL.
func (c *Client) SetLikeCount(ctx context.Context, postID string, count int64) {
	_ = c.Set(ctx, LikeCountKey(postID), []byte(strconv.FormatInt(count, 10)), LikeCountTTL)
}

// InvalidateLikeCount drops a post's cached like count. A failure is logged;
// the stale count then lives until LikeCountTTL expires.
func (c *Client) InvalidateLikeCount(ctx context.Context, postID string) {
	if err := c.Delete(ctx, LikeCountKey(postID)); err != nil {
		log.Printf("Failed to invalidate like count for post %s: %v", postID, err)
	}
}
