// Package idempotency makes retried writes safe: the first call with a key
// runs, later calls with the same key get the stored result.
package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrAlreadyInProgress = errors.New("idempotency: operation already in progress")
	ErrInvalidState      = errors.New("idempotency: invalid stored state")
)

const (
	stateInProgress = "in_progress"
	completedPrefix = "completed:"

	defaultLockDuration = time.Minute
	defaultResultTTL    = 24 * time.Hour
)

// Idempotency runs fn at most once per key within the result TTL.
type Idempotency interface {
	Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error), opts ...Option) ([]byte, error)
}

type options struct {
	lock time.Duration
	ttl  time.Duration
}

type Option func(*options)

// WithLockDuration bounds how long a crashed first call blocks retries.
func WithLockDuration(d time.Duration) Option {
	return func(o *options) { o.lock = d }
}

// WithResultTTL sets how long a completed result is replayed.
func WithResultTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// StateTracker implements Idempotency on redis.
type StateTracker struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient) *StateTracker {
	return &StateTracker{client: client, prefix: "idempotency:"}
}

// Do acquires key with SETNX. A failed fn releases the key so the caller can
// retry; a successful fn stores its result for replay.
func (s *StateTracker) Do(ctx context.Context, key string, fn func(context.Context) ([]byte, error), opts ...Option) ([]byte, error) {
	o := options{lock: defaultLockDuration, ttl: defaultResultTTL}
	for _, opt := range opts {
		opt(&o)
	}

	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, stateInProgress, o.lock).Result()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return s.stored(ctx, fk)
	}

	result, err := fn(ctx)
	if err != nil {
		if delErr := s.client.Del(context.WithoutCancel(ctx), fk).Err(); delErr != nil {
			return nil, errors.Join(err, delErr)
		}
		return nil, err
	}

	if err := s.client.Set(ctx, fk, completedPrefix+string(result), o.ttl).Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *StateTracker) stored(ctx context.Context, fk string) ([]byte, error) {
	val, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// released between SETNX and GET: the first call failed
		return nil, ErrAlreadyInProgress
	}
	if err != nil {
		return nil, err
	}

	switch {
	case val == stateInProgress:
		return nil, ErrAlreadyInProgress
	case strings.HasPrefix(val, completedPrefix):
		return []byte(strings.TrimPrefix(val, completedPrefix)), nil
	default:
		return nil, ErrInvalidState
	}
}
