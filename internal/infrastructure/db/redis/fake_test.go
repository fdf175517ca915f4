package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeStore is an in-memory stand-in for the few commands these types issue.
type fakeStore struct {
	counts  map[string]int64
	values  map[string]string
	ttls    map[string]time.Duration
	expires int
	err     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counts: make(map[string]int64),
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeStore) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeStore) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires++
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeStore) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}
