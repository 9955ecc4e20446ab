// Package ratelimit counts hits per key in fixed redis windows.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result describes the state of a key after a hit.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// FixedWindow allows Limit hits per Window for each key.
type FixedWindow struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewFixedWindow(client redis.UniversalClient, prefix string, limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow records a hit. The counter and its expiry are set in one pipeline so a
// crash between them cannot leave a key without a TTL.
func (f *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	k := f.prefix + ":" + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := f.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, f.window)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	count := int(incr.Val())
	reset := ttl.Val()
	if reset < 0 {
		reset = f.window
	}

	return Result{
		Allowed:   count <= f.limit,
		Limit:     f.limit,
		Remaining: max(f.limit-count, 0),
		ResetIn:   reset,
	}, nil
}
