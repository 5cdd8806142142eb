// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RunLocker provides single-flight protection for a named job across
// replicas. Acquire returns ok=false when another holder owns the lock.
type RunLocker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(context.Context), ok bool, err error)
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string, time.Duration) (func(context.Context), bool, error) {
	return func(context.Context) {}, true, nil
}

// luaReleaseIfMatch deletes the lock only when its value still matches the
// holder's token, so an expired lock re-acquired by another replica is never
// released by the old holder.
const luaReleaseIfMatch = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`

// RedisRunLock implements RunLocker with a Redis SETNX lock plus a
// compare-value release script.
type RedisRunLock struct {
	client *redis.Client
	prefix string
}

// NewRedisRunLock creates a run lock backed by the given Redis client.
func NewRedisRunLock(client *redis.Client) *RedisRunLock {
	return &RedisRunLock{client: client, prefix: "shopsync:runlock:"}
}

func (l *RedisRunLock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context), bool, error) {
	key := l.prefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func(releaseCtx context.Context) {
		// Best effort; TTL expiry reclaims the lock if this fails.
		_, _ = l.client.Eval(releaseCtx, luaReleaseIfMatch, []string{key}, token).Int()
	}
	return release, true, nil
}
