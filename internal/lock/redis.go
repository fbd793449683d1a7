// README: Redis-backed locker (SET NX PX with token-checked release).
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "lock:"
	retryInterval = 20 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	redis *redis.Client
	ttl   time.Duration
	wait  time.Duration
}

// NewRedisLocker holds locks for at most ttl and waits up to ttl to acquire one.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{redis: client, ttl: ttl, wait: ttl}
}

// WithLock is a lease, not a renewable lock: the key expires after ttl whether or not fn
// has returned. fn therefore runs under a context that ends when the lease does, so store
// calls made with it abort instead of writing after another holder may have entered.
// Keep ttl well above the store's per-call latency.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	k := lockKeyPrefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	for {
		ok, err := l.redis.SetNX(waitCtx, k, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if waitCtx.Err() != nil {
				return ErrLockTimeout
			}
			return fmt.Errorf("acquire %s: %w", k, err)
		}
		if ok {
			break
		}
		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrLockTimeout
		case <-time.After(retryInterval):
		}
	}

	defer func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), l.redis, []string{k}, token).Err()
	}()
	leaseCtx, cancelLease := context.WithTimeout(ctx, l.ttl)
	defer cancelLease()
	return fn(leaseCtx)
}
