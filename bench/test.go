package bench

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/antoninbas/baseline/stats"
	"github.com/antoninbas/baseline/timer"
)

// loopAction is an action that runs its own repeat loop: it is handed the
// number of operations to perform per cycle.
type loopAction struct {
	sync  func(n int) error
	async func(n int, done Done)
}

func newLoopAction(fn any) (*loopAction, error) {
	switch f := fn.(type) {
	case func(int):
		return &loopAction{sync: func(n int) error { f(n); return nil }}, nil
	case func(int) error:
		return &loopAction{sync: f}, nil
	case func(int, Done):
		return &loopAction{async: f}, nil
	case func(int, func(error)):
		return &loopAction{async: func(n int, done Done) { f(n, done) }}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedAction, fn)
}

// Test is a named benchmark. Its statistics are only written by an
// Evaluator while the test is being evaluated.
type Test struct {
	Title string

	// Count is the number of operations per cycle. It starts at 1 and
	// only grows.
	Count int
	// Cycles is the number of cycles performed.
	Cycles int
	// Sample holds the per-operation durations, in seconds, of each cycle
	// that reached the minimum measurable time.
	Sample []float64
	// Mean is the sample mean in seconds.
	Mean float64
	// MOE is the margin of error of the mean in seconds.
	MOE float64
	// RME is the relative margin of error, as a percentage of the mean.
	RME float64
	// Hz is the number of operations per second.
	Hz float64
	// Timestamp is when evaluation started.
	Timestamp time.Time
	// Clocked is the duration, in seconds, of the most recent cycle.
	Clocked float64

	parent  *Suite
	pending bool

	runnable Runnable
	action   *action
	loop     *loopAction
	timer    *timer.Timer
}

// NewTest returns a test that repeats fn. fn may be func(), func() error,
// func(Done) or func(func(error)). A nil fn makes a pending test.
func NewTest(title string, fn any) (*Test, error) {
	t := &Test{Title: title, Count: 1}
	if fn == nil {
		return t, nil
	}
	a, err := newAction(fn)
	if err != nil {
		return nil, fmt.Errorf("test %q: %w", title, err)
	}
	t.action = a
	return t, nil
}

// NewLoopTest returns a test whose action performs the repetitions itself.
// fn may be func(n int), func(n int) error, func(n int, Done) or
// func(n int, func(error)).
func NewLoopTest(title string, fn any) (*Test, error) {
	t := &Test{Title: title, Count: 1}
	if fn == nil {
		return t, nil
	}
	l, err := newLoopAction(fn)
	if err != nil {
		return nil, fmt.Errorf("test %q: %w", title, err)
	}
	t.loop = l
	return t, nil
}

// Parent returns the suite the test belongs to.
func (t *Test) Parent() *Suite { return t.parent }

// Pending reports whether the test is a placeholder or was skipped.
func (t *Test) Pending() bool {
	return t.pending || (t.action == nil && t.loop == nil)
}

// SetPending marks the test to be skipped.
func (t *Test) SetPending(pending bool) { t.pending = pending }

// Async reports whether the test's action signals its own completion.
func (t *Test) Async() bool {
	switch {
	case t.action != nil:
		return t.action.isAsync()
	case t.loop != nil:
		return t.loop.async != nil
	}
	return false
}

// SetTimeout sets how long an asynchronous cycle may run.
func (t *Test) SetTimeout(d time.Duration) { t.runnable.Timeout = d }

// Timeout returns the timeout applied to asynchronous cycles.
func (t *Test) Timeout() time.Duration { return t.runnable.timeout() }

// TimedOut reports whether the latest cycle timed out.
func (t *Test) TimedOut() bool { return t.runnable.TimedOut }

// Path returns the titles from the outermost named suite down to the test.
func (t *Test) Path() []string {
	path := []string{t.Title}
	for s := t.parent; s != nil && s.parent != nil; s = s.parent {
		path = append(path, s.Title)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FullTitle joins Path with spaces.
func (t *Test) FullTitle() string {
	return strings.Join(t.Path(), " ")
}

// AdjustedHz is the throughput at the pessimistic end of the confidence
// interval. It is used for ranking, not for display.
func (t *Test) AdjustedHz() float64 {
	return 1 / (t.Mean + t.MOE)
}

// Compare reports whether t is faster (1), slower (-1) or indistinguishable
// (0) from other.
func (t *Test) Compare(other *Test) int {
	if t == other {
		return 0
	}
	return stats.MannWhitneyUTest(t.Sample, other.Sample)
}

// prepare readies the test for an evaluation.
func (t *Test) prepare(tm *timer.Timer, now time.Time) {
	t.Sample = []float64{}
	t.timer = tm
	t.Timestamp = now
}

// record appends a per-operation period to the sample and refreshes the
// estimates derived from it.
func (t *Test) record(period float64) {
	t.Sample = append(t.Sample, period)
	size := float64(len(t.Sample))

	t.Mean = stats.Mean(t.Sample)
	sd := math.Sqrt(stats.Variance(t.Sample))
	sem := sd / math.Sqrt(size)
	t.MOE = sem * stats.CriticalValue(size-1)
	t.RME = t.MOE / t.Mean * 100
	if math.IsNaN(t.RME) {
		t.RME = 0
	}
	t.Hz = 1 / t.Mean
}

// run performs one cycle: Count operations timed as a single span.
func (t *Test) run(ctx context.Context) error {
	if t.Pending() {
		return fmt.Errorf("test %q has no action", t.Title)
	}
	if t.timer == nil {
		return fmt.Errorf("test %q has no timer", t.Title)
	}
	c := &cycle{}
	err := t.runnable.execute(ctx, t.Async(), func(done Done, abort <-chan struct{}) {
		t.invoke(c, done, abort)
	})
	if err != nil {
		return err
	}
	t.Clocked = c.elapsed()
	return nil
}

// cycle holds the span measured by one invocation until the evaluating
// goroutine reads it back. Signals arriving after a timeout only ever
// reach the cycle, never the Test.
type cycle struct {
	mu      sync.Mutex
	clocked float64
}

func (c *cycle) stop(clock *timer.Timer, start timer.Mark) {
	d := clock.Stop(start)
	c.mu.Lock()
	c.clocked = d
	c.mu.Unlock()
}

func (c *cycle) elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clocked
}

func (t *Test) invoke(c *cycle, done Done, abort <-chan struct{}) {
	clock := t.timer
	count := t.Count

	if t.loop != nil {
		if t.loop.async != nil {
			start := clock.Start()
			t.loop.async(count, func(err error) {
				select {
				case <-abort:
				default:
					c.stop(clock, start)
				}
				done(err)
			})
			return
		}
		start := clock.Start()
		err := t.loop.sync(count)
		c.stop(clock, start)
		done(err)
		return
	}

	if !t.action.isAsync() {
		fn := t.action.sync
		start := clock.Start()
		for k := 0; k < count; k++ {
			if err := fn(); err != nil {
				done(err)
				return
			}
		}
		c.stop(clock, start)
		done(nil)
		return
	}

	// Repetitions of an asynchronous action are chained, each one started
	// after the previous one signalled completion.
	fn := t.action.async
	start := clock.Start()
	for k := 0; k < count; k++ {
		s := &step{result: make(chan error, 1)}
		fn(s.signal(done))
		select {
		case err := <-s.result:
			if err != nil {
				done(err)
				return
			}
		case <-abort:
			return
		}
	}
	c.stop(clock, start)
	done(nil)
}

// step is the completion of one repetition inside an asynchronous cycle.
type step struct {
	mu     sync.Mutex
	fired  bool
	result chan error
}

// signal returns the completion callback for the repetition. A second
// call fails the whole cycle.
func (s *step) signal(done Done) Done {
	return func(err error) {
		s.mu.Lock()
		fired := s.fired
		s.fired = true
		s.mu.Unlock()
		if fired {
			done(ErrMultipleDone)
			return
		}
		s.result <- err
	}
}
