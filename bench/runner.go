package bench

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"k8s.io/klog/v2"
)

const (
	// DefaultThreshold is the smallest percent change from baseline that is
	// reported.
	DefaultThreshold = 5
	// DefaultConfidence is the confidence level, in percent, of baseline
	// comparisons.
	DefaultConfidence = 95
)

// Baseline is previously recorded data a test can be compared against.
type Baseline interface {
	// Timestamp is when the baseline was recorded.
	Timestamp() time.Time
	// Compare returns the percent change in throughput of t relative to the
	// baseline at the given confidence, with ok false when the baseline
	// holds nothing for t. A change of 0 means no significant difference.
	Compare(t *Test, confidence float64) (percentChange float64, ok bool, err error)
}

// Runner walks a suite tree sequentially, running hooks and evaluating
// tests, and counts the tests that got significantly slower than baseline.
type Runner struct {
	// Threshold is the smallest absolute percent change reported.
	Threshold float64
	// Confidence is the confidence level, in percent, used against the
	// baseline.
	Confidence float64

	reporter  Reporter
	evaluator *Evaluator
	baseline  Baseline
	slower    int
}

// NewRunner returns a Runner. baseline may be nil.
func NewRunner(reporter Reporter, evaluator *Evaluator, baseline Baseline) *Runner {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Runner{
		Threshold:  DefaultThreshold,
		Confidence: DefaultConfidence,
		reporter:   reporter,
		evaluator:  evaluator,
		baseline:   baseline,
	}
}

// Run runs the tree rooted at suite and returns the number of tests
// significantly slower than baseline. The first error aborts the run.
func (r *Runner) Run(ctx context.Context, suite *Suite) (int, error) {
	r.slower = 0

	var recorded time.Time
	if r.baseline != nil {
		recorded = r.baseline.Timestamp()
	}
	r.reporter.Start(recorded)

	if err := r.runSuite(ctx, suite); err != nil {
		return r.slower, err
	}
	r.reporter.End()
	return r.slower, nil
}

func (r *Runner) runSuite(ctx context.Context, suite *Suite) error {
	r.reporter.SuiteStart(suite)

	if err := runHooks(ctx, suite, "before", suite.Before); err != nil {
		return err
	}
	for _, t := range suite.Tests {
		if err := r.runTest(ctx, suite, t); err != nil {
			return err
		}
	}
	if suite.Comparison && !suite.Pending() {
		r.rank(suite)
	}
	for _, child := range suite.Suites {
		if err := r.runSuite(ctx, child); err != nil {
			return err
		}
	}
	if err := runHooks(ctx, suite, "after", suite.After); err != nil {
		return err
	}

	r.reporter.SuiteEnd(suite)
	return nil
}

func (r *Runner) runTest(ctx context.Context, suite *Suite, t *Test) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if suite.Pending() || t.Pending() {
		r.reporter.Pending(t)
		return nil
	}

	r.reporter.TestStart(t)
	if err := runHooks(ctx, suite, "beforeEach", suite.BeforeEach); err != nil {
		return err
	}
	if err := r.evaluator.Evaluate(ctx, t); err != nil {
		return fmt.Errorf("%s: %w", t.FullTitle(), err)
	}
	if err := runHooks(ctx, suite, "afterEach", suite.AfterEach); err != nil {
		return err
	}

	change, changed, err := r.compare(t)
	if err != nil {
		return fmt.Errorf("%s: unable to compare with baseline: %w", t.FullTitle(), err)
	}
	klog.V(2).InfoS("Test completed", "test", t.FullTitle(), "hz", t.Hz, "rme", t.RME, "samples", len(t.Sample), "change", change, "changed", changed)
	r.reporter.TestEnd(t, change, changed)
	return nil
}

// compare applies the threshold filter to the baseline comparison and
// counts surviving regressions.
func (r *Runner) compare(t *Test) (float64, bool, error) {
	if r.baseline == nil {
		return 0, false, nil
	}
	change, ok, err := r.baseline.Compare(t, r.Confidence)
	if err != nil || !ok {
		return 0, false, err
	}
	if math.IsInf(change, 0) || math.IsNaN(change) || math.Abs(change) < r.Threshold {
		return 0, false, nil
	}
	if change < 0 {
		r.slower++
	}
	return change, true, nil
}

// rank reports the position of each successful test of a comparison group
// relative to the fastest ones.
func (r *Runner) rank(suite *Suite) {
	fastest := suite.Fastest()
	if len(fastest) == 0 {
		return
	}
	slowest := suite.Slowest()
	fastestHz := fastest[0].AdjustedHz()

	for _, t := range suite.Successful() {
		if t.Pending() {
			continue
		}
		hz := t.AdjustedHz()
		rank := 0
		switch {
		case slices.Contains(fastest, t):
			rank = 1
		case slices.Contains(slowest, t):
			rank = -1
		}
		percentSlower := (1 - hz/fastestHz) * 100
		known := rank != 1 && !math.IsInf(hz, 0) && !math.IsNaN(hz)
		if !known {
			percentSlower = 0
		}
		r.reporter.Rank(t, rank, percentSlower, known)
	}
}

func runHooks(ctx context.Context, suite *Suite, kind string, hooks []*Runnable) error {
	for i, hook := range hooks {
		if err := hook.Run(ctx); err != nil {
			return fmt.Errorf("%s hook #%d in suite %q: %w", kind, i+1, suite.Title, err)
		}
	}
	return nil
}
