package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hamadpass/khodarji-backend/pkg/config"
)

type fakeCmdable struct {
	counters map[string]int64
	expires  map[string]time.Duration
	values   map[string]string
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{
		counters: map[string]int64{},
		expires:  map[string]time.Duration{},
		values:   map[string]string{},
	}
}

func (f *fakeCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if val, ok := f.values[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, exists := f.values[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	f.values[key] = value.(string)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counters[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.counters[key])
	return cmd
}

func (f *fakeCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func TestIncrWithTTLSetsExpiryOnFirstIncrement(t *testing.T) {
	fake := newFakeCmdable()
	client := &Client{store: fake}

	count, err := client.IncrWithTTL(context.Background(), "k", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}
	if fake.expires["k"] != time.Minute {
		t.Fatalf("expected TTL on first increment, got %v", fake.expires["k"])
	}

	delete(fake.expires, "k")
	if _, err := client.IncrWithTTL(context.Background(), "k", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fake.expires["k"]; ok {
		t.Fatal("TTL must not be reset on later increments")
	}
}

func TestSetNXHonorsExistingRecord(t *testing.T) {
	fake := newFakeCmdable()
	client := &Client{store: fake}

	ok, err := client.SetNX(context.Background(), "key", "first", time.Hour)
	if err != nil || !ok {
		t.Fatalf("first SetNX should win: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(context.Background(), "key", "second", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("second SetNX must lose")
	}
	if got, _ := client.Get(context.Background(), "key"); got != "first" {
		t.Fatalf("expected stored value to survive, got %q", got)
	}
}

func TestKeyBuildersAreNamespaced(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("orders", "abc"); got != "khodarji:idempotency:orders:abc" {
		t.Fatalf("unexpected idempotency key %q", got)
	}
	if got := client.RateLimitKey("rl:ip:identify:1.2.3.4"); got != "khodarji:rate_limit:rl:ip:identify:1.2.3.4" {
		t.Fatalf("unexpected rate limit key %q", got)
	}
}

func TestOptionsFromConfigRequiresEndpoint(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither URL nor address configured")
	}
	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 5 {
		t.Fatalf("options not carried over: %+v", opts)
	}
}
