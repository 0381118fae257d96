package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds the caller's token, so an expired
// lease re-acquired by someone else is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease is a held lock. It expires on its own after the TTL it was acquired with.
type Lease struct {
	Key   string
	Token string
}

type Locker interface {
	// TryAcquire never waits: ok is false when the lock is held by someone else.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (lease Lease, ok bool, err error)
	Release(ctx context.Context, lease Lease) error
}

type redisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) Locker {
	return &redisLocker{client: client}
}

func (r *redisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (Lease, bool, error) {
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return Lease{}, false, err
	}
	if !ok {
		return Lease{}, false, nil
	}

	return Lease{Key: key, Token: token}, true, nil
}

func (r *redisLocker) Release(ctx context.Context, lease Lease) error {
	return releaseScript.Run(ctx, r.client, []string{lease.Key}, lease.Token).Err()
}
