// Package lifecycle coordinates startup and shutdown of long-lived subsystems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Hook is a named unit of startup or shutdown work.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Coordinator runs startup hooks concurrently and shutdown hooks in reverse
// registration order. A failed startup hook leaves the coordinator not ready.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startupWg sync.WaitGroup

	mu       sync.RWMutex
	started  bool
	failures []error
	shutdown []namedHook
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup starts fn immediately in its own goroutine. A returned error is
// recorded under name and reported by WaitForStartup.
func (c *Coordinator) OnStartup(name string, fn Hook) {
	c.startupWg.Go(func() {
		if err := fn(c.ctx); err != nil {
			c.mu.Lock()
			c.failures = append(c.failures, fmt.Errorf("%s: %w", name, err))
			c.mu.Unlock()
		}
	})
}

// OnShutdown registers fn to run during Shutdown, after the coordinator
// context is cancelled. Hooks run last-registered first.
func (c *Coordinator) OnShutdown(name string, fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, namedHook{name: name, fn: fn})
}

// Ready returns true once startup has completed without failures.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started && len(c.failures) == 0
}

// Failures returns the errors recorded by startup hooks so far.
func (c *Coordinator) Failures() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.failures)
}

// WaitForStartup blocks until all startup hooks have returned and
// reports their combined failures.
func (c *Coordinator) WaitForStartup() error {
	c.startupWg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
	return errors.Join(c.failures...)
}

// Shutdown cancels the context and runs shutdown hooks within timeout.
// Hook errors are joined; exceeding the timeout abandons the remaining hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	c.mu.RLock()
	hooks := slices.Clone(c.shutdown)
	c.mu.RUnlock()
	slices.Reverse(hooks)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var errs []error
		for _, h := range hooks {
			if err := h.fn(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			}
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
