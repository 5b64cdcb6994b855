package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/powerplay-sports/booking-service/internal/models"
)

func newTestRoleCache(t *testing.T) (*RoleCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRoleCache(client, time.Minute), mr
}

func TestRoleCache_SetGet(t *testing.T) {
	rc, mr := newTestRoleCache(t)
	ctx := context.Background()

	if _, err := rc.Get(ctx, "a@b.com"); !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("Get() on empty cache error = %v, want ErrCacheNotFound", err)
	}

	if err := rc.Set(ctx, " a@b.com", models.RoleAdmin, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := rc.Get(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != models.RoleAdmin {
		t.Errorf("Get() = %q, want admin", got)
	}

	if ttl := mr.TTL("role:a@b.com"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := rc.Get(ctx, "a@b.com"); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrCacheNotFound", err)
	}
}

func TestRoleCache_CorruptValueIsAMiss(t *testing.T) {
	rc, mr := newTestRoleCache(t)
	ctx := context.Background()

	for _, stored := range []string{"superuser", "Admin", " admin"} {
		if err := mr.Set("role:x@y.com", stored); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := rc.Get(ctx, "x@y.com"); !errors.Is(err, ErrCacheNotFound) {
			t.Fatalf("Get() with %q error = %v, want ErrCacheNotFound", stored, err)
		}
		if mr.Exists("role:x@y.com") {
			t.Errorf("entry %q should have been deleted", stored)
		}
	}
}

func TestRoleCache_Invalidate(t *testing.T) {
	rc, mr := newTestRoleCache(t)
	ctx := context.Background()

	for _, email := range []string{"a@b.com", "c@d.com", "e@f.com"} {
		if err := rc.Set(ctx, email, models.RoleStudent, 0); err != nil {
			t.Fatalf("Set(%s) error = %v", email, err)
		}
	}
	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rc.Invalidate(ctx, "a@b.com")
	if mr.Exists("role:a@b.com") {
		t.Error("Invalidate() left the key in place")
	}

	rc.InvalidateAll(ctx)
	if keys := mr.Keys(); len(keys) != 2 || keys[0] != "other:key" || keys[1] != generationKey {
		t.Errorf("keys after InvalidateAll() = %v, want [other:key %s]", keys, generationKey)
	}
}

func TestRoleCache_SetAfterInvalidationIsDropped(t *testing.T) {
	rc, mr := newTestRoleCache(t)
	ctx := context.Background()

	gen, err := rc.Generation(ctx)
	if err != nil {
		t.Fatalf("Generation() error = %v", err)
	}

	// a promotion lands between the store read and the cache write
	rc.InvalidateAll(ctx)

	if err := rc.Set(ctx, "a@b.com", models.RoleAdmin, gen); !errors.Is(err, ErrStaleGeneration) {
		t.Fatalf("Set() with old generation error = %v, want ErrStaleGeneration", err)
	}
	if mr.Exists("role:a@b.com") {
		t.Error("stale role was written to the cache")
	}

	gen, _ = rc.Generation(ctx)
	if gen != 1 {
		t.Errorf("Generation() = %d, want 1", gen)
	}
	if err := rc.Set(ctx, "a@b.com", models.RoleInstructor, gen); err != nil {
		t.Fatalf("Set() with current generation error = %v", err)
	}
	if got, _ := rc.Get(ctx, "a@b.com"); got != models.RoleInstructor {
		t.Errorf("Get() = %q, want instructor", got)
	}
}

func TestRoleCache_NoClient(t *testing.T) {
	rc := NewRoleCache(nil, 0)
	ctx := context.Background()

	if err := rc.Set(ctx, "a@b.com", models.RoleAdmin, 0); err != nil {
		t.Errorf("Set() without client error = %v, want nil", err)
	}
	if _, err := rc.Get(ctx, "a@b.com"); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() without client error = %v, want ErrCacheNotAvailable", err)
	}
	if gen, err := rc.Generation(ctx); gen != 0 || err != nil {
		t.Errorf("Generation() without client = %d, %v", gen, err)
	}
	rc.Invalidate(ctx, "a@b.com")
	rc.InvalidateAll(ctx)
	if err := rc.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() error = %v, want ErrCacheNotAvailable", err)
	}
}
