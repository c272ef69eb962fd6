// Package lifecycle coordinates startup and shutdown hooks across subsystems.
package lifecycle

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// HookResult records how a named startup hook finished.
type HookResult struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
	Err     error         `json:"-"`
}

// OK reports whether the hook succeeded.
func (r HookResult) OK() bool {
	return r.Err == nil
}

// Coordinator runs startup hooks concurrently and holds shutdown hooks
// until the context is cancelled. A failed startup hook does not block
// readiness; the subsystem is reported as degraded instead.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool

	mu      sync.Mutex
	results []HookResult
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnStartupE runs a fallible hook concurrently during startup and records
// its outcome under name.
func (c *Coordinator) OnStartupE(name string, fn func(ctx context.Context) error) {
	c.startup.Go(func() {
		start := time.Now()
		err := fn(c.ctx)

		c.mu.Lock()
		c.results = append(c.results, HookResult{Name: name, Elapsed: time.Since(start), Err: err})
		c.mu.Unlock()
	})
}

// OnShutdown registers cleanup to run during Shutdown. fn should block on
// <-c.Context().Done() before releasing anything.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Ready reports whether every startup hook has returned.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until every startup hook returns, marks the
// coordinator ready, and joins the errors of failed hooks.
func (c *Coordinator) WaitForStartup() error {
	c.startup.Wait()
	c.ready.Store(true)

	var errs []error
	for _, r := range c.Results() {
		if !r.OK() {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Results returns the outcomes of the fallible hooks that have finished,
// ordered by name.
func (c *Coordinator) Results() []HookResult {
	c.mu.Lock()
	out := slices.Clone(c.results)
	c.mu.Unlock()

	slices.SortFunc(out, func(a, b HookResult) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Degraded returns the names of startup hooks that failed.
func (c *Coordinator) Degraded() []string {
	names := make([]string, 0)
	for _, r := range c.Results() {
		if !r.OK() {
			names = append(names, r.Name)
		}
	}
	return names
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
