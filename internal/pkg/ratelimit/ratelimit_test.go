package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiter(t *testing.T, rate, burst float64) *RateLimiter {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Fatalf("close redis: %v", err)
		}
	})

	return NewRedisRateLimiter(rdb, "test:ratelimit:", rate, burst)
}

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	r := newLimiter(t, 0.001, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := r.Allow(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("expected request %d within burst to pass", i)
		}
	}

	allowed, wait, err := r.Allow(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatalf("expected request beyond burst to be denied")
	}
	if wait <= 0 {
		t.Fatalf("expected positive retry hint, got %v", wait)
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	r := newLimiter(t, 0.001, 1)
	ctx := context.Background()

	if allowed, _, err := r.Allow(ctx, "a@example.com"); err != nil || !allowed {
		t.Fatalf("expected first key to pass, allowed=%v err=%v", allowed, err)
	}
	if allowed, _, _ := r.Allow(ctx, "a@example.com"); allowed {
		t.Fatalf("expected first key to be exhausted")
	}
	if allowed, _, err := r.Allow(ctx, "b@example.com"); err != nil || !allowed {
		t.Fatalf("expected second key to have its own bucket, allowed=%v err=%v", allowed, err)
	}
}

func TestRateLimiter_Unconfigured(t *testing.T) {
	r := newLimiter(t, 0, 0)

	allowed, _, err := r.Allow(context.Background(), "x")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !allowed {
		t.Fatalf("expected unconfigured limiter to always allow")
	}
}
