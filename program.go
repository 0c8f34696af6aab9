// Package baseline runs micro-benchmark suites and compares their
// throughput with a previously recorded baseline.
//
// A benchmark binary declares its suites through a bench.Builder and hands
// them to Main:
//
//	func main() {
//		baseline.Main(func(b *bench.Builder) {
//			b.Suite("strings", func() {
//				b.Test("Index", func() { strings.Index(text, "needle") })
//			})
//		})
//	}
package baseline

import (
	"context"
	"fmt"
	"os"
	"time"

	"k8s.io/klog/v2"

	"github.com/antoninbas/baseline/bench"
	"github.com/antoninbas/baseline/reporters"
	"github.com/antoninbas/baseline/results"
	"github.com/antoninbas/baseline/timer"
)

// Options configure a Program. Zero fields take their defaults.
type Options struct {
	// MaxTime is the sampling budget of each test.
	MaxTime time.Duration
	// Timeout bounds every asynchronous action.
	Timeout time.Duration
	// Threshold is the smallest percent change from baseline reported.
	// Nil means DefaultThreshold; 0 reports every significant change.
	Threshold *float64
	// Confidence is the confidence level, in percent, of comparisons.
	Confidence float64
	// BaselinePath is where the baseline is read from and saved to. No
	// baseline is used when empty.
	BaselinePath string
	// Update saves a new baseline even when one was loaded.
	Update bool
	// Commit is recorded in saved baselines.
	Commit string

	Reporter bench.Reporter
	Timer    *timer.Timer
}

// Program loads the baseline, runs the declared suites against it and
// saves a new baseline when needed.
type Program struct {
	opts   Options
	define func(*bench.Builder)
}

// NewProgram returns a Program running the suites declared by define.
func NewProgram(opts Options, define func(*bench.Builder)) *Program {
	if opts.MaxTime == 0 {
		opts.MaxTime = bench.DefaultMaxTime
	}
	if opts.Threshold == nil {
		threshold := float64(DefaultThreshold)
		opts.Threshold = &threshold
	}
	if opts.Confidence == 0 {
		opts.Confidence = bench.DefaultConfidence
	}
	if opts.Reporter == nil {
		opts.Reporter = reporters.NewDefault(os.Stdout, nil)
	}
	if opts.Timer == nil {
		opts.Timer = timer.NewMonotonic()
	}
	return &Program{opts: opts, define: define}
}

// Run returns the number of tests significantly slower than baseline.
func (p *Program) Run(ctx context.Context) (int, error) {
	b := bench.NewBuilder(p.opts.Timeout)
	if p.define != nil {
		p.define(b)
	}
	root, err := b.Build()
	if err != nil {
		return 0, fmt.Errorf("invalid benchmark declarations: %w", err)
	}

	loaded, err := results.Load(p.opts.BaselinePath)
	if err != nil {
		return 0, err
	}
	// A nil *Results must not end up in a non-nil interface.
	var baseline bench.Baseline
	if loaded != nil {
		baseline = loaded
		doc := loaded.Document()
		klog.InfoS("Baseline loaded", "path", p.opts.BaselinePath, "recorded", loaded.Timestamp(), "commit", doc.Commit)
	}

	tests := root.TestCount()
	klog.InfoS("Running benchmarks", "tests", tests, "maxDuration", time.Duration(tests)*p.opts.MaxTime)

	evaluator := bench.NewEvaluator(p.opts.Timer, p.opts.Reporter)
	evaluator.MaxTime = p.opts.MaxTime
	runner := bench.NewRunner(p.opts.Reporter, evaluator, baseline)
	runner.Threshold = *p.opts.Threshold
	runner.Confidence = p.opts.Confidence

	slower, err := runner.Run(ctx, root)
	if err != nil {
		return slower, err
	}

	if (loaded == nil || p.opts.Update) && p.opts.BaselinePath != "" {
		saved := results.FromSuite(root, time.Now())
		saved.Document().Commit = p.opts.Commit
		if err := saved.Save(p.opts.BaselinePath); err != nil {
			return slower, err
		}
		klog.InfoS("Baseline saved", "path", p.opts.BaselinePath, "commit", p.opts.Commit)
	}
	return slower, nil
}
