// Package redislock serializes work across processes with Redis keys.
package redislock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/masomo-lms/core/practice"
)

const retryInterval = 50 * time.Millisecond

// releaseScript deletes the key only if we still own it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a practice.Locker backed by SET NX PX.
// A holder that dies keeps the key until the TTL expires.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

var _ practice.Locker = (*Locker)(nil)

func New(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl, prefix: "lms:lock:"}
}

// Acquire polls until the key is free or ctx is done.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	key = l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Wrapf(err, "locking %s", key)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "waiting for %s", key)
		case <-time.After(retryInterval):
		}
	}

	return func() {
		// release even if the request ctx is already cancelled
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{key}, token).Err()
	}, nil
}

func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
