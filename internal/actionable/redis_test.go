package actionable

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis implements redisCommands over plain maps so the backend's
// index bookkeeping can be tested without a server.
type fakeRedis struct {
	values map[string][]byte
	lists  map[string][]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string][]byte),
		lists:  make(map[string][]string),
	}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.values[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = append([]byte(nil), value.([]byte)...)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		f.lists[key] = append(f.lists[key], fmt.Sprint(v))
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedis) LRem(ctx context.Context, key string, count int64, value interface{}) *redis.IntCmd {
	want := fmt.Sprint(value)
	var kept []string
	removed := int64(0)
	for _, v := range f.lists[key] {
		if v == want {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	f.lists[key] = kept
	return redis.NewIntResult(removed, nil)
}

func (f *fakeRedis) LLen(ctx context.Context, key string) *redis.IntCmd {
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeRedis) LPop(ctx context.Context, key string) *redis.StringCmd {
	list := f.lists[key]
	if len(list) == 0 {
		return redis.NewStringResult("", redis.Nil)
	}
	head := list[0]
	f.lists[key] = list[1:]
	return redis.NewStringResult(head, nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	removed := int64(0)
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			removed++
		}
		delete(f.lists, k)
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeRedis) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(append([]string(nil), f.lists[key]...), nil)
}

func (f *fakeRedis) Close() error { return nil }

func testRedisBackend(fake *fakeRedis) *RedisBackend {
	return &RedisBackend{client: fake, ttl: time.Minute, maxEntries: 5}
}

func TestRedisBackendRoundTrip(t *testing.T) {
	b := testRedisBackend(newFakeRedis())
	ctx := context.Background()

	if _, ok := b.Get(ctx, "1-0-0"); ok {
		t.Fatal("empty backend should miss")
	}
	if err := b.Set(ctx, "1-0-0", []Insight{{ID: "a", Title: "x", Priority: 3}}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entry, ok := b.Get(ctx, "1-0-0")
	if !ok {
		t.Fatal("fresh entry should hit")
	}
	if len(entry.Insights) != 1 || entry.Insights[0].ID != "a" {
		t.Errorf("round-trip lost the insight list: %+v", entry.Insights)
	}
}

func TestRedisBackendResetKeepsIndexUnique(t *testing.T) {
	fake := newFakeRedis()
	b := testRedisBackend(fake)
	ctx := context.Background()

	// Re-setting the same fingerprint must not duplicate it in the
	// index; a stale duplicate reaching the head would make eviction
	// delete the still-live entry.
	for i := 0; i < 3; i++ {
		if err := b.Set(ctx, "2-1-0", nil); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if got := len(fake.lists[redisIndexKey]); got != 1 {
		t.Fatalf("index should hold the fingerprint once, got %d entries", got)
	}

	for i := 0; i < 4; i++ {
		if err := b.Set(ctx, fmt.Sprintf("%d-0-0", i), nil); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	// At the cap, nothing has been evicted and the re-set key is live.
	if got := len(fake.lists[redisIndexKey]); got != 5 {
		t.Fatalf("index length = %d, want 5", got)
	}
	if _, ok := b.Get(ctx, "2-1-0"); !ok {
		t.Fatal("re-set fingerprint should still be cached at the cap")
	}
}

func TestRedisBackendEvictsOldest(t *testing.T) {
	fake := newFakeRedis()
	b := testRedisBackend(fake)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if err := b.Set(ctx, fmt.Sprintf("%d-0-0", i), nil); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if got := len(fake.lists[redisIndexKey]); got != 5 {
		t.Fatalf("index length = %d, want 5", got)
	}
	if _, ok := b.Get(ctx, "0-0-0"); ok {
		t.Error("oldest fingerprint should have been evicted")
	}
	if _, ok := b.Get(ctx, "5-0-0"); !ok {
		t.Error("newest fingerprint should survive")
	}
}

func TestRedisBackendClear(t *testing.T) {
	fake := newFakeRedis()
	b := testRedisBackend(fake)
	ctx := context.Background()

	b.Set(ctx, "1-1-1", nil)
	b.Set(ctx, "2-2-2", nil)
	b.Clear(ctx)

	if _, ok := b.Get(ctx, "1-1-1"); ok {
		t.Error("cleared backend should miss")
	}
	if len(fake.lists[redisIndexKey]) != 0 {
		t.Error("clear should drop the index")
	}
}
