package sortedstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/gridbot/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// index key format: <prefix>:runs
const runIndexKeyFmt = "%s:runs"

var ErrInvalidKeep = errors.New("run index must keep at least one run")

// sortedSet is the part of the Redis client the index talks to.
type sortedSet interface {
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZCard(ctx context.Context, key string) *redis.IntCmd
	ZRemRangeByRank(ctx context.Context, key string, start, stop int64) *redis.IntCmd
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// locker takes a named lock shared by every server on the same Redis.
type locker interface {
	Lock(ctx context.Context, name string) (unlock func(context.Context), err error)
}

type redsyncLocker struct {
	rs *redsync.Redsync
}

func (l redsyncLocker) Lock(ctx context.Context, name string) (func(context.Context), error) {
	mutex := l.rs.NewMutex(name)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	return func(ctx context.Context) {
		_, _ = mutex.UnlockContext(ctx)
	}, nil
}

// RedisRunIndex keeps the IDs of recently started runs in a Redis sorted
// set scored by start time, so every server sharing the Redis sees them.
type RedisRunIndex struct {
	store  sortedSet
	locker locker
	key    string
	keep   int64
	ttl    time.Duration
}

var (
	_ i.RunIndex = &RedisRunIndex{}
	_ sortedSet  = &redis.Client{}
)

// NewRedisRunIndex creates an index under prefix that keeps the newest keep
// runs. The key expires ttl after the latest Add; a zero ttl never expires.
func NewRedisRunIndex(client *redis.Client, prefix string, keep int64, ttl time.Duration) (*RedisRunIndex, error) {
	return newRunIndex(client, redsyncLocker{rs: redsync.New(goredis.NewPool(client))}, prefix, keep, ttl)
}

func newRunIndex(store sortedSet, l locker, prefix string, keep int64, ttl time.Duration) (*RedisRunIndex, error) {
	if keep < 1 {
		return nil, ErrInvalidKeep
	}
	return &RedisRunIndex{
		store:  store,
		locker: l,
		key:    RunIndexKey(prefix),
		keep:   keep,
		ttl:    ttl,
	}, nil
}

// RunIndexKey returns the sorted set holding the run IDs.
func RunIndexKey(prefix string) string {
	return fmt.Sprintf(runIndexKeyFmt, prefix)
}

// Add records a run, pushes the key's expiry out by ttl and trims the index
// to its size.
func (idx *RedisRunIndex) Add(ctx context.Context, runID string, startedAt time.Time) error {
	score := float64(startedAt.UnixNano())
	if err := idx.store.ZAdd(ctx, idx.key, redis.Z{Score: score, Member: runID}).Err(); err != nil {
		return err
	}

	if idx.ttl > 0 {
		if err := idx.store.Expire(ctx, idx.key, idx.ttl).Err(); err != nil {
			return err
		}
	}

	size, err := idx.store.ZCard(ctx, idx.key).Result()
	if err != nil {
		return err
	}
	if size > idx.keep {
		return idx.trim(ctx)
	}
	return nil
}

// trim drops the oldest runs beyond keep. Servers sharing the index take a
// lock so only one of them trims at a time.
func (idx *RedisRunIndex) trim(ctx context.Context) error {
	unlock, err := idx.locker.Lock(ctx, idx.key+":trim_lock")
	if err != nil {
		return err
	}
	defer unlock(ctx)

	return idx.store.ZRemRangeByRank(ctx, idx.key, 0, -(idx.keep + 1)).Err()
}

// Recent returns up to n runs, newest first.
func (idx *RedisRunIndex) Recent(ctx context.Context, n int64) ([]i.IndexedRun, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := idx.store.ZRevRangeWithScores(ctx, idx.key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	runs := make([]i.IndexedRun, len(zs))
	for k, z := range zs {
		runs[k] = i.IndexedRun{
			ID:        fmt.Sprint(z.Member),
			StartedAt: time.Unix(0, int64(z.Score)),
		}
	}
	return runs, nil
}
