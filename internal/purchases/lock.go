package purchases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
)

const (
	defaultLockTTL   = 10 * time.Second
	lockRetryBackoff = 50 * time.Millisecond
)

// Locker serializes work on a single purchase id.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// KeyedMutex is an in-process Locker. Entries are dropped once no goroutine
// holds or waits on them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{ch: make(chan struct{}, 1)}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			k.release(key, entry)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, entry *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
}

func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// RedisLocker coordinates across API replicas with a Redis lease.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	keyFn  func(string) string
}

// NewRedisLocker builds a Locker over redislock. keyFn namespaces the
// purchase id; nil uses the id as is.
func NewRedisLocker(client redislock.RedisClient, ttl time.Duration, keyFn func(string) string) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for locker")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if keyFn == nil {
		keyFn = func(id string) string { return id }
	}
	return &RedisLocker{client: redislock.New(client), ttl: ttl, keyFn: keyFn}, nil
}

// Lock retries until the lease is obtained, ctx ends, or one TTL elapses.
func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	obtainCtx, cancel := context.WithTimeout(ctx, r.ttl)
	defer cancel()

	lock, err := r.client.Obtain(obtainCtx, r.keyFn(key), r.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(lockRetryBackoff),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("purchase %s is locked: %w", key, err)
		}
		return nil, fmt.Errorf("obtain purchase lock: %w", err)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = lock.Release(releaseCtx)
	}, nil
}
