package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern clears keys under the helper's prefix. Failures are
// only logged; stale entries still expire with their TTL.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.WarnContext(ctx, "Cache invalidation failed",
			"error", err,
			"namespace", helper.prefix,
			"pattern", pattern)
	}
}

func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "Cache delete failed",
			"error", err,
			"namespace", helper.prefix,
			"count", len(keys))
	}
}
