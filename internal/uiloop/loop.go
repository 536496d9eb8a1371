// Package uiloop provides the single serialized execution context every core
// type runs on, plus the per-frame tick used for live tracking.
package uiloop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned when work is submitted to a loop that has exited.
var ErrStopped = errors.New("ui loop stopped")

// DefaultQueueSize is the task buffer used by New.
const DefaultQueueSize = 256

// Loop runs posted functions one at a time on the goroutine that called Run.
type Loop struct {
	tasks   chan func()
	stopped chan struct{}
	once    sync.Once
	logger  *zap.Logger
}

// New creates a loop. Call Run to start processing.
func New(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		tasks:   make(chan func(), DefaultQueueSize),
		stopped: make(chan struct{}),
		logger:  logger,
	}
}

// Run processes tasks until ctx is done. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.stopped) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} { return l.stopped }

// Post enqueues fn. It reports false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	return l.post(fn, nil)
}

func (l *Loop) post(fn func(), cancel <-chan struct{}) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopped:
		return false
	case <-cancel:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.post(func() {
		defer close(done)
		fn()
	}, ctx.Done()) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrStopped
	}
}

// exec runs one task. A panicking task is logged and dropped.
func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("ui loop task panicked", zap.Error(fmt.Errorf("%v", r)))
		}
	}()
	fn()
}
