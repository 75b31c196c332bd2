package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned by WithLock when another process holds the lock.
var ErrLocked = errors.New("platform/cache: lock held elsewhere")

// WithLock runs fn while holding a redis lock on key. The lock expires after
// ttl even if the process dies.
func WithLock(ctx context.Context, client redis.UniversalClient, key string, ttl time.Duration, fn func(ctx context.Context) error) (err error) {
	lock, err := redislock.New(client).Obtain(ctx, "lock:"+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrLocked
	}
	if err != nil {
		return fmt.Errorf("platform/cache: obtain lock %s: %w", key, err)
	}
	defer func() {
		if relErr := lock.Release(context.WithoutCancel(ctx)); relErr != nil && !errors.Is(relErr, redislock.ErrLockNotHeld) && err == nil {
			err = fmt.Errorf("platform/cache: release lock %s: %w", key, relErr)
		}
	}()
	return fn(ctx)
}
