package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/powerplay-sports/booking-service/internal/models"
)

const (
	rolePrefix     = "role:"
	DefaultRoleTTL = 5 * time.Minute

	// outside rolePrefix so InvalidateAll never deletes it
	generationKey = "role-generation"
)

// ErrStaleGeneration means roles were invalidated after the caller read the
// generation; the value it looked up may predate the change.
var ErrStaleGeneration = errors.New("role cache generation changed")

// RoleCache keeps resolved roles keyed by email.
type RoleCache struct {
	helper *CacheHelper
	ttl    time.Duration
}

// NewRoleCache accepts a nil client; every lookup then misses.
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = DefaultRoleTTL
	}
	return &RoleCache{helper: NewCacheHelper(client, rolePrefix), ttl: ttl}
}

func roleKey(email string) string {
	return strings.TrimSpace(email)
}

// Get returns ErrCacheNotFound on a miss, ErrCacheNotAvailable without Redis.
// A stored value outside the role enum is treated as a miss.
func (rc *RoleCache) Get(ctx context.Context, email string) (models.Role, error) {
	v, err := rc.helper.GetString(ctx, roleKey(email))
	if err != nil {
		return "", err
	}
	role, err := models.ParseRole(v)
	if err != nil {
		SafeDelete(ctx, rc.helper, roleKey(email))
		return "", ErrCacheNotFound
	}
	return role, nil
}

// Generation must be read before looking the role up in the store and passed
// to Set afterwards. It is 0 without Redis.
func (rc *RoleCache) Generation(ctx context.Context) (int64, error) {
	if !rc.helper.Available() {
		return 0, nil
	}
	n, err := rc.helper.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read role generation: %w", err)
	}
	return n, nil
}

// Set stores role only if no invalidation happened since gen was read.
func (rc *RoleCache) Set(ctx context.Context, email string, role models.Role, gen int64) error {
	if !rc.helper.Available() {
		return nil
	}
	key := rc.helper.GetCacheKey(roleKey(email))

	err := rc.helper.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return ErrStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, role.String(), rc.ttl)
			return nil
		})
		return err
	}, generationKey)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleGeneration
	}
	return err
}

func (rc *RoleCache) Invalidate(ctx context.Context, email string) {
	SafeDelete(ctx, rc.helper, roleKey(email))
}

// InvalidateAll drops every cached role and bumps the generation so lookups
// already in flight do not write their old role back. Promotion is keyed by
// record ID, not email, so it clears the whole namespace.
func (rc *RoleCache) InvalidateAll(ctx context.Context) {
	if !rc.helper.Available() {
		return
	}
	if err := rc.helper.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.WarnContext(ctx, "Role generation bump failed", "error", err)
	}
	SafeInvalidatePattern(ctx, rc.helper, "*")
}

func (rc *RoleCache) HealthCheck(ctx context.Context) error {
	return rc.helper.HealthCheck(ctx)
}
