// Package lifecycle runs a process's startup and shutdown hooks against a
// single cancellable context.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var ErrShutdownTimeout = errors.New("shutdown timeout")

// Coordinator tracks startup and shutdown hooks. Startup hooks start
// immediately; readiness is reported once all of them return. Shutdown
// hooks also start immediately and are expected to block on Context
// before cleaning up.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	starting sync.WaitGroup
	stopping sync.WaitGroup
	ready    atomic.Bool

	once sync.Once
	err  error
}

func New() *Coordinator {
	return NewFromContext(context.Background())
}

// NewFromContext ties the coordinator to parent, so cancelling parent
// (a signal context, say) releases the shutdown hooks.
func NewFromContext(parent context.Context) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins or the parent ends.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

func (c *Coordinator) OnStartup(fn func()) {
	c.starting.Go(fn)
}

func (c *Coordinator) OnShutdown(fn func()) {
	c.stopping.Go(fn)
}

func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until every startup hook has returned, then
// marks the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.starting.Wait()
	c.ready.Store(true)
}

// Shutdown clears readiness, cancels Context, and waits up to timeout for
// the shutdown hooks. Later calls return the first call's result.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.once.Do(func() {
		c.ready.Store(false)
		c.cancel()
		c.err = c.await(timeout)
	})
	return c.err
}

func (c *Coordinator) await(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		c.stopping.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w after %v", ErrShutdownTimeout, timeout)
	}
}
