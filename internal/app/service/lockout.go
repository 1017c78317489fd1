package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bookreview/internal/common"

	"github.com/redis/go-redis/v9"
)

// LockoutTracker counts consecutive failed login attempts per identity name
// and blocks further attempts once the threshold is reached, until the
// window since the last failure has elapsed.
type LockoutTracker interface {
	// Check returns common.ErrAccountLocked while the identity is locked.
	// An elapsed window clears the record before the decision.
	Check(ctx context.Context, name string) error
	// RecordFailure increments the counter and refreshes its timestamp.
	// It reports whether this failure reached the lockout threshold.
	RecordFailure(ctx context.Context, name string) (locked bool, err error)
	// RecordSuccess clears any failure history for the identity.
	RecordSuccess(ctx context.Context, name string) error
}

// CanonicalLockoutKey folds the name so case variants of the same identity
// share one counter. Locking by the literal input would let "Ada" and "ada"
// accumulate separate budgets against the same credential.
func CanonicalLockoutKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type lockoutRecord struct {
	attempts    int
	lastFailure time.Time
}

// MemoryLockoutTracker is the single-process implementation. State does not
// survive a restart; deployments with multiple instances should use the
// redis backend instead.
type MemoryLockoutTracker struct {
	mu        sync.Mutex
	records   map[string]lockoutRecord
	threshold int
	window    time.Duration
	now       func() time.Time
}

func NewMemoryLockoutTracker(threshold int, window time.Duration) *MemoryLockoutTracker {
	return &MemoryLockoutTracker{
		records:   make(map[string]lockoutRecord),
		threshold: threshold,
		window:    window,
		now:       time.Now,
	}
}

func (t *MemoryLockoutTracker) Check(_ context.Context, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[name]
	if !ok {
		return nil
	}
	if t.now().Sub(rec.lastFailure) >= t.window {
		delete(t.records, name)
		return nil
	}
	if rec.attempts >= t.threshold {
		return common.ErrAccountLocked
	}
	return nil
}

func (t *MemoryLockoutTracker) RecordFailure(_ context.Context, name string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.records[name]
	if rec.attempts > 0 && t.now().Sub(rec.lastFailure) >= t.window {
		rec = lockoutRecord{}
	}
	rec.attempts++
	rec.lastFailure = t.now()
	t.records[name] = rec
	return rec.attempts >= t.threshold, nil
}

func (t *MemoryLockoutTracker) RecordSuccess(_ context.Context, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, name)
	return nil
}

// redisCmds is the slice of redis.Cmdable the tracker needs; *redis.Client
// satisfies it.
type redisCmds interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisLockoutTracker keeps the counters in Redis so the lockout budget is
// shared across instances. The key expires one window after the most recent
// failure, which matches the memory tracker's reset behavior.
type RedisLockoutTracker struct {
	rdb       redisCmds
	threshold int
	window    time.Duration
}

func NewRedisLockoutTracker(rdb redisCmds, threshold int, window time.Duration) *RedisLockoutTracker {
	return &RedisLockoutTracker{rdb: rdb, threshold: threshold, window: window}
}

func (t *RedisLockoutTracker) key(name string) string {
	return "lockout:" + name
}

func (t *RedisLockoutTracker) Check(ctx context.Context, name string) error {
	attempts, err := t.rdb.Get(ctx, t.key(name)).Int()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("RedisLockoutTracker.Check: %w", err)
	}
	if attempts >= t.threshold {
		return common.ErrAccountLocked
	}
	return nil
}

func (t *RedisLockoutTracker) RecordFailure(ctx context.Context, name string) (bool, error) {
	attempts, err := t.rdb.Incr(ctx, t.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("RedisLockoutTracker.RecordFailure: %w", err)
	}
	if err := t.rdb.Expire(ctx, t.key(name), t.window).Err(); err != nil {
		return false, fmt.Errorf("RedisLockoutTracker.RecordFailure expire: %w", err)
	}
	return attempts >= int64(t.threshold), nil
}

func (t *RedisLockoutTracker) RecordSuccess(ctx context.Context, name string) error {
	if err := t.rdb.Del(ctx, t.key(name)).Err(); err != nil {
		return fmt.Errorf("RedisLockoutTracker.RecordSuccess: %w", err)
	}
	return nil
}
