package bench

import (
	"context"
	"math"
	"time"

	"k8s.io/klog/v2"

	"github.com/antoninbas/baseline/timer"
)

const (
	// DefaultMaxTime is the sampling budget of a single test.
	DefaultMaxTime = 2 * time.Second
	// DefaultMinSamples is the smallest sample statistics are trusted on.
	DefaultMinSamples = 5

	// minCycleTime is the floor, in seconds, of the measurable cycle span.
	minCycleTime = 0.05
	// maxUncertainty is the share of a cycle the timer's own granularity
	// may account for.
	maxUncertainty = 0.01
)

// Evaluator samples a test until its estimate is both backed by enough
// points and has used its time budget.
type Evaluator struct {
	// MaxTime is the wall-clock budget after which sampling stops, once
	// MinSamples points have been taken.
	MaxTime time.Duration
	// MinSamples is the minimum number of sample points.
	MinSamples int

	timer    *timer.Timer
	reporter Reporter
	minTime  float64
	now      func() time.Time
}

// NewEvaluator returns an Evaluator measuring with t. reporter may be nil.
func NewEvaluator(t *timer.Timer, reporter Reporter) *Evaluator {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Evaluator{
		MaxTime:    DefaultMaxTime,
		MinSamples: DefaultMinSamples,
		timer:      t,
		reporter:   reporter,
		// The span needed for the timer resolution to contribute at most 1%
		// uncertainty.
		minTime: math.Max(t.Resolution()/2/maxUncertainty, minCycleTime),
		now:     time.Now,
	}
}

// MinTime is the shortest cycle, in seconds, accepted as a sample point.
func (e *Evaluator) MinTime() float64 { return e.minTime }

// Evaluate resets t's sample and cycles it until the stop condition holds.
// The first error from a cycle ends the evaluation; points already
// recorded are kept.
func (e *Evaluator) Evaluate(ctx context.Context, t *Test) error {
	t.prepare(e.timer, e.now())

	for {
		period, err := e.cycle(ctx, t)
		if err != nil {
			return err
		}
		t.record(period)
		e.reporter.Cycle(t)
		klog.V(4).InfoS("Sampled cycle", "test", t.FullTitle(), "count", t.Count, "period", period, "hz", t.Hz, "rme", t.RME)

		if len(t.Sample) >= e.MinSamples && e.now().Sub(t.Timestamp) >= e.MaxTime {
			return nil
		}
	}
}

// cycle runs t until a cycle lasts at least minTime, growing t.Count
// towards the smallest measurable repeat factor, and returns the seconds
// per operation of that cycle.
func (e *Evaluator) cycle(ctx context.Context, t *Test) (float64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		t.Cycles++
		if err := t.run(ctx); err != nil {
			return 0, err
		}

		period := t.Clocked / float64(t.Count)
		if t.Clocked >= e.minTime {
			return period, nil
		}
		if period <= 0 {
			// Nothing measurable yet: grow geometrically.
			t.Count *= 2
			continue
		}
		t.Count += int(math.Ceil((e.minTime - t.Clocked) / period))
	}
}
