// Package goroutine runs background work with a concurrency ceiling and
// drains it on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/lankagov/gnportal/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// DefaultMaxGoroutine is multiplied by NumCPU when no limit is configured.
const DefaultMaxGoroutine int = 100

// Manager schedules tasks, collects their errors and refuses new work once
// Wait has been called.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu   sync.Mutex
	errs []error

	state   sync.RWMutex
	closed  bool
	running atomic.Int64
	dropped atomic.Int64
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go runs f in a new goroutine when a slot is free. Work is dropped, with a
// warning, when the manager is full or closed.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.state.RLock()
	defer g.state.RUnlock()

	if g.closed {
		g.dropped.Inc()
		slog.WarnContext(ctx, "goroutine manager is closed, task dropped")
		return
	}

	select {
	case g.sema <- struct{}{}:
	default:
		g.dropped.Inc()
		slog.WarnContext(ctx, "goroutine limit reached, task dropped")
		return
	}

	g.running.Inc()
	g.wg.Go(func() {
		defer func() {
			g.running.Dec()
			<-g.sema
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic in background task", "because", rvr, "stack", stacktrace.InternalPaths(debug.Stack()))
			}
		}()

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "background task skipped", "because", err)
			return
		}
		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})
}

// Running is the number of tasks currently executing.
func (g *Manager) Running() int64 { return g.running.Load() }

// Dropped is the number of tasks refused since start.
func (g *Manager) Dropped() int64 { return g.dropped.Load() }

// Wait closes the manager, blocks until every task returns and joins their
// errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.state.Lock()
	g.closed = true
	g.state.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
