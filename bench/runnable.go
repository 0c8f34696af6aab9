package bench

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout bounds how long an asynchronous action may take to signal
// completion when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// Done is handed to asynchronous actions; calling it signals completion,
// with a non-nil error to report failure.
type Done func(err error)

// action is a user supplied unit of work normalized to one of two shapes.
// Exactly one of sync or async is set.
type action struct {
	sync  func() error
	async func(done Done)
}

// newAction accepts func(), func() error, func(Done) and func(func(error)).
// The asynchronous shapes are the ones taking a completion parameter.
func newAction(fn any) (*action, error) {
	switch f := fn.(type) {
	case func():
		return &action{sync: func() error { f(); return nil }}, nil
	case func() error:
		return &action{sync: f}, nil
	case func(Done):
		return &action{async: f}, nil
	case func(func(error)):
		return &action{async: func(done Done) { f(done) }}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedAction, fn)
}

func (a *action) isAsync() bool {
	return a.async != nil
}

// Runnable executes a single action under the completion protocol: one
// completion per invocation, a timeout for asynchronous actions, and
// panics converted to errors.
type Runnable struct {
	// Timeout bounds an asynchronous invocation. Zero means DefaultTimeout.
	Timeout time.Duration
	// TimedOut is set when the latest invocation hit its timeout.
	TimedOut bool

	action *action

	mu   sync.Mutex
	late error // protocol violation observed after an invocation returned
}

// NewRunnable wraps fn, which must be func(), func() error, func(Done) or
// func(func(error)).
func NewRunnable(fn any) (*Runnable, error) {
	a, err := newAction(fn)
	if err != nil {
		return nil, err
	}
	return &Runnable{action: a}, nil
}

// Async reports whether the action signals its own completion.
func (r *Runnable) Async() bool {
	return r.action.isAsync()
}

// Run invokes the action once and waits for it to complete.
func (r *Runnable) Run(ctx context.Context) error {
	a := r.action
	if a.isAsync() {
		return r.execute(ctx, true, func(done Done, _ <-chan struct{}) { a.async(done) })
	}
	return r.execute(ctx, false, func(done Done, _ <-chan struct{}) { done(a.sync()) })
}

func (r *Runnable) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

func (r *Runnable) recordLate(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.late == nil {
		r.late = err
	}
}

func (r *Runnable) takeLate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.late
	r.late = nil
	return err
}

// execute runs invoke and waits for its completion signal. Synchronous
// invocations run on the calling goroutine; asynchronous ones run on their
// own goroutine so that a timeout can fire while they are outstanding.
// invoke must stop work once abort is closed.
func (r *Runnable) execute(ctx context.Context, async bool, invoke func(done Done, abort <-chan struct{})) error {
	if err := r.takeLate(); err != nil {
		return err
	}
	r.TimedOut = false

	c := newCompletion(r)
	if !async {
		c.call(invoke)
		select {
		case err := <-c.result:
			return err
		default:
			c.expire()
			return fmt.Errorf("synchronous action returned without completing")
		}
	}

	go c.call(invoke)

	ms := r.timeout()
	timer := time.NewTimer(ms)
	defer timer.Stop()

	select {
	case err := <-c.result:
		return err
	case <-timer.C:
		c.expire()
		r.TimedOut = true
		return &TimeoutError{Timeout: ms}
	case <-ctx.Done():
		c.expire()
		return ctx.Err()
	}
}

// completion tracks the completion signals of a single invocation.
type completion struct {
	owner  *Runnable
	result chan error
	abort  chan struct{}

	mu       sync.Mutex
	finished bool
	expired  bool
}

func newCompletion(owner *Runnable) *completion {
	return &completion{
		owner:  owner,
		result: make(chan error, 1),
		abort:  make(chan struct{}),
	}
}

func (c *completion) done(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expired {
		return
	}
	if c.finished {
		c.owner.recordLate(ErrMultipleDone)
		return
	}
	c.finished = true
	close(c.abort)
	c.result <- err
}

// call runs invoke, reporting a panic as the invocation's error.
func (c *completion) call(invoke func(done Done, abort <-chan struct{})) {
	defer func() {
		if p := recover(); p != nil {
			c.done(fmt.Errorf("action panicked: %v", p))
		}
	}()
	invoke(c.done, c.abort)
}

// expire makes later signals no-ops.
func (c *completion) expire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.expired && !c.finished {
		close(c.abort)
	}
	c.expired = true
}
