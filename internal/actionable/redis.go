package actionable

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisIndexKey = "dayflow:actionable:index"

// redisCommands is the slice of the go-redis API the backend uses.
// *redis.Client satisfies it; tests substitute a fake.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LRem(ctx context.Context, key string, count int64, value interface{}) *redis.IntCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
	LPop(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Close() error
}

// RedisBackend stores cache entries in Redis so several app processes
// share one actionable-insight cache. Entries expire via Redis TTL;
// the fingerprint index list enforces the entry cap.
type RedisBackend struct {
	client     redisCommands
	ttl        time.Duration
	maxEntries int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	TTL        time.Duration
	MaxEntries int
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return &RedisBackend{
		client:     client,
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
	}, nil
}

func redisEntryKey(key string) string {
	return "dayflow:actionable:" + key
}

// Get returns the entry for key; Redis TTL handles expiry.
func (b *RedisBackend) Get(ctx context.Context, key string) (*Entry, bool) {
	data, err := b.client.Get(ctx, redisEntryKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[Actionable] Redis get failed, treating as miss: %v", err)
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Printf("[Actionable] Corrupt cache entry for %s, treating as miss: %v", key, err)
		return nil, false
	}
	return &entry, true
}

// Set stores the insight list under key with the backend TTL and trims
// the fingerprint index to the entry cap.
func (b *RedisBackend) Set(ctx context.Context, key string, insights []Insight) error {
	entry := Entry{
		Key:      key,
		Insights: insights,
		CachedAt: time.Now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := b.client.Set(ctx, redisEntryKey(key), data, b.ttl).Err(); err != nil {
		return err
	}

	// Track insertion order and evict the oldest fingerprints. The key
	// is removed from the index first so re-setting a fingerprint never
	// leaves a stale duplicate that eviction could chase.
	if err := b.client.LRem(ctx, redisIndexKey, 0, key).Err(); err != nil {
		return err
	}
	if err := b.client.RPush(ctx, redisIndexKey, key).Err(); err != nil {
		return err
	}
	for {
		count, err := b.client.LLen(ctx, redisIndexKey).Result()
		if err != nil || count <= int64(b.maxEntries) {
			return err
		}
		oldest, err := b.client.LPop(ctx, redisIndexKey).Result()
		if err != nil {
			return err
		}
		if oldest != key {
			b.client.Del(ctx, redisEntryKey(oldest))
		}
	}
}

// Clear drops all cached entries and the index.
func (b *RedisBackend) Clear(ctx context.Context) {
	keys, err := b.client.LRange(ctx, redisIndexKey, 0, -1).Result()
	if err == nil {
		for _, k := range keys {
			b.client.Del(ctx, redisEntryKey(k))
		}
	}
	b.client.Del(ctx, redisIndexKey)
}

// Close releases the Redis connection.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

// Verify implementations at compile time.
var (
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*RedisBackend)(nil)
)
